package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/rules"
)

// --------------------------------------------------------------------------
// status command
// --------------------------------------------------------------------------

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show quotas, cooldowns and the next sell price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				list, err := a.Sales.List(ctx)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), rules.Summarize(list, time.Now(), cfg.Location))
				return nil
			})
		},
	}
}

func printSummary(w io.Writer, s rules.Summary) {
	fmt.Fprintf(w, "2-hour window:   %d/%d  %s\n", s.TwoHour.Count, s.TwoHour.Limit, s.TwoHour.Status)
	fmt.Fprintf(w, "30-hour window:  %d/%d  %s\n", s.ThirtyHour.Count, s.ThirtyHour.Limit, s.ThirtyHour.Status)

	price := fmt.Sprintf("Next sell price: %d%%", s.Price.Percentage)
	if s.Price.ResetAt != nil {
		price += fmt.Sprintf("  (chain %d, resets in %s)", s.Price.ChainCount, s.Price.ResetIn)
	}
	fmt.Fprintln(w, price)

	if len(s.Cooldowns) > 0 {
		fmt.Fprintln(w, "Cooldowns:")
		for _, c := range s.Cooldowns {
			plate := c.Sale.Plate
			if plate == "" {
				plate = "-"
			}
			fmt.Fprintf(w, "  %s %s  %-8s %s left\n", c.Sale.Date, c.Sale.Time, plate, rules.FormatRemaining(c.Remaining()))
		}
	}

	days := make([]string, 0, len(s.Weekly))
	for _, d := range s.Weekly {
		days = append(days, fmt.Sprintf("%s:%d", d.Day, d.Count))
	}
	fmt.Fprintf(w, "This week:       %s\n", strings.Join(days, " "))
	fmt.Fprintf(w, "Total sales:     %d\n", s.TotalSales)
}

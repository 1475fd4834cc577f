package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/sales"
)

// --------------------------------------------------------------------------
// sale command
// --------------------------------------------------------------------------

func saleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record, list, edit and delete sales",
	}
	cmd.AddCommand(saleAddCmd())
	cmd.AddCommand(saleListCmd())
	cmd.AddCommand(saleEditCmd())
	cmd.AddCommand(saleRmCmd())
	return cmd
}

type saleFlags struct {
	date  string
	time  string
	plate string
}

func (f *saleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Sale date (YYYY-MM-DD); default today")
	cmd.Flags().StringVar(&f.time, "time", "", "Sale time (HH:mm); default now")
	cmd.Flags().StringVar(&f.plate, "plate", "", "License plate tag")
}

// input resolves the flags against now in loc. A missing date means today,
// a missing time means the current minute.
func (f *saleFlags) input(now time.Time, loc *time.Location) (sales.Input, error) {
	in := sales.Input{Plate: f.plate, At: now}
	if f.date == "" && f.time == "" {
		return in, nil
	}
	local := now.In(loc)
	date, clock := f.date, f.time
	if date == "" {
		date = local.Format(time.DateOnly)
	}
	if clock == "" {
		clock = local.Format("15:04")
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return in, fmt.Errorf("parse --date/--time: %w", err)
	}
	in.At = at
	return in, nil
}

func saleAddCmd() *cobra.Command {
	var flags saleFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				in, err := flags.input(time.Now(), cfg.Location)
				if err != nil {
					return err
				}
				sale, err := a.Sales.Create(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded sale %s at %s %s\n", sale.ID, sale.Date, sale.Time)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func saleListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				list, err := a.Sales.List(ctx)
				if err != nil {
					return err
				}
				if limit > 0 && len(list) > limit {
					list = list[:limit]
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tTIME\tPLATE")
				for _, s := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Date, s.Time, s.Plate)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many sales (0 = all)")
	return cmd
}

func saleEditCmd() *cobra.Command {
	var flags saleFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a sale; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				current, err := a.Sales.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("plate") {
					flags.plate = current.Plate
				}
				// Unset date/time fall back to the sale's own, not now.
				in, err := flags.input(current.At(), cfg.Location)
				if err != nil {
					return err
				}
				sale, err := a.Sales.Update(ctx, current.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated sale %s: %s %s %s\n", sale.ID, sale.Date, sale.Time, sale.Plate)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func saleRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if err := a.Sales.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted sale %s\n", args[0])
				return nil
			})
		},
	}
}

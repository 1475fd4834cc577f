package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/sales"
)

// --------------------------------------------------------------------------
// plate command
// --------------------------------------------------------------------------

func plateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plate",
		Short: "Manage saved license plates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <license>",
		Short: "Save a license plate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				p, err := a.Plates.Add(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved plate %s (%s)\n", p.License, p.ID)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plates with usage counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				plates, err := a.Plates.List(ctx)
				if err != nil {
					return err
				}
				list, err := a.Sales.List(ctx)
				if err != nil {
					return err
				}
				usage := sales.UsageCounts(list)
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tLICENSE\tSALES")
				for _, p := range plates {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", p.ID, p.License, usage[p.License])
				}
				return tw.Flush()
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a saved plate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if err := a.Plates.Remove(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed plate %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

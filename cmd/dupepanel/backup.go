package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/backup"
	"github.com/albapepper/dupepanel/internal/config"
)

// --------------------------------------------------------------------------
// export / import / clear commands
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of sales, plates and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if out == "-" {
					return a.Backup.WriteExport(ctx, cmd.OutOrStdout())
				}
				if out == "" {
					out = backup.FileName(time.Now())
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := a.Backup.WriteExport(ctx, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file ("-" for stdout); default dupepanel-backup-YYYY-MM-DD.json`)
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace sales and plates (and settings, if present) from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			env, err := backup.Decode(f)
			if err != nil {
				return err
			}
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if err := a.Backup.Import(ctx, env); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sales and %d plates\n", len(env.Sales), len(env.Plates))
				return nil
			})
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all sales and plates and restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all data without --yes")
			}
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if err := a.Backup.ClearAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting everything")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/notifications"
)

// --------------------------------------------------------------------------
// notify command
// --------------------------------------------------------------------------

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Inspect the notification queue or send a test alert",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show scheduled notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				queue, err := notifications.LoadQueue(ctx, a.Mirror)
				if err != nil {
					return err
				}
				shown, err := notifications.LoadShown(ctx, a.Mirror)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKIND\tAT\tSHOWN")
				for _, n := range queue {
					at := time.UnixMilli(n.Time).In(cfg.Location).Format("2006-01-02 15:04")
					fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", n.ID, n.Kind, at, shown.Has(n.ID))
				}
				return tw.Flush()
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Ask the delivery worker to show a test alert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if cfg.EmbeddedWorker() {
					return fmt.Errorf("test alerts need a standalone worker; BRIDGE_TRANSPORT is %s", cfg.BridgeTransport)
				}
				if err := a.Mirror.RequestTest(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Test alert requested")
				return nil
			})
		},
	})
	return cmd
}

// Command dupepanel is the Dupepanel command-line client. It works on the
// same store as the API and pushes every change to the delivery worker.
//
// Usage:
//
//	dupepanel sale add --plate ABC123
//	dupepanel sale add --date 2026-03-14 --time 09:30
//	dupepanel sale list
//	dupepanel sale edit <id> --time 10:00
//	dupepanel sale rm <id>
//	dupepanel plate add abc123
//	dupepanel status
//	dupepanel export --out backup.json
//	dupepanel import backup.json
//	dupepanel clear --yes
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dupepanel",
		Short:         "Track vehicle sales against the sell limits",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(saleCmd())
	root.AddCommand(plateCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(clearCmd())
	root.AddCommand(notifyCmd())
	return root
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runApp handles config loading, store setup, and context cancellation.
func runApp(fn func(ctx context.Context, cfg *config.Config, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.Open(ctx, cfg, app.Options{}, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer a.Close()

	return fn(ctx, cfg, a)
}

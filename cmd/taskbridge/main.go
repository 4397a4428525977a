// Package main is the entry point for the taskbridge CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskbridge/internal/backend/googletasks"
	"taskbridge/internal/backend/ticktick"
	"taskbridge/internal/cli"
	"taskbridge/internal/commands"
	"taskbridge/internal/config"
	"taskbridge/internal/metrics"
	"taskbridge/internal/service"
	"taskbridge/internal/ynab"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Registry: commands.DefaultRegistry,
		Services: newService,
		Budgets:  newBudgets,
		Out:      os.Stdout,
		Err:      os.Stderr,
	}

	code := app.Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

// newService builds the configured task backend. TickTick without an access
// key is left unconfigured so the YNAB commands remain usable.
func newService(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg, m)
	default:
		if cfg.TickTick.AccessKey == "" {
			return nil, nil
		}
		return ticktick.New(cfg, m)
	}
}

// newBudgets builds the YNAB client when an access token is configured.
func newBudgets(cfg *config.Config, m *metrics.Metrics) (commands.Budgets, error) {
	if cfg.YNAB.AccessToken == "" {
		return nil, nil
	}
	return ynab.New(cfg, m)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hotel/internal/config"
	"hotel/internal/menu"
	"hotel/internal/session"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hotel",
		Short:         "Hotel management console: rooms, guests, services and reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return runConsole(cmd, a)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		fmt.Sprintf("config file (default %s, or $%s)", config.DefaultPath, config.EnvPath))

	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newBackupCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

// runConsole holds the session lock while the menu runs and saves when the
// menu ends or the process is interrupted. An interrupted save waits for
// the running menu action to finish.
func runConsole(cmd *cobra.Command, a *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	guard, closeGuard := a.guard()
	defer closeGuard()
	if err := guard.Acquire(ctx); err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer func() {
		if err := guard.Release(context.Background()); err != nil {
			a.logger.Error().Err(err).Msg("Failed to release session lock")
		}
	}()
	if _, ok := guard.(session.NopGuard); !ok {
		go session.KeepAlive(ctx, guard, a.cfg.LockTTL()/3, &a.logger)
	}

	if a.cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, a.cfg.Monitoring.PrometheusPort, &a.logger)
	}

	m := menu.New(a.hotel, cmd.InOrStdin(), cmd.OutOrStdout(),
		menu.WithLogger(&a.logger),
		menu.WithExportDir(a.cfg.Storage.DataDir),
	)
	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
		return a.save()
	case <-ctx.Done():
		a.logger.Info().Msg("Interrupted, saving")
		var err error
		m.Exclusive(func() { err = a.save() })
		return err
	}
}

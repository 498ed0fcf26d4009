package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wandergenie/internal/gateway/app"
	"wandergenie/internal/gateway/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		port string
		fake bool
	)

	cmd := &cobra.Command{
		Use:   "wandergenie",
		Short: "WanderGenie travel planning API",
		Long: `WanderGenie serves AI-generated itineraries, destination highlights,
travel chat and a speech translator over JSON HTTP.

Configuration comes from the environment (and .env). Flags override it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = config.NormalizePort(port)
			}
			if cmd.Flags().Changed("fake") {
				cfg.LLM.Fake = fake
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen address, e.g. 8081 or :8081 (overrides PORT)")
	cmd.Flags().BoolVar(&fake, "fake", false, "Serve canned oracle replies instead of calling Gemini (overrides LLM_FAKE)")

	return cmd
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

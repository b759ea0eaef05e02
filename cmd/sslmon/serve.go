package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sslmon/internal/logger"
	"sslmon/internal/server"
)

func serveCommand(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP interface",
		Long: `Start an HTTP server exposing:

  GET /                  usage
  GET /health            liveness
  GET /domain/{domain}   registration data
  GET /cert/{host}?port= certificate validity

Responses are plain text unless ?format=json or Accept: application/json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, os.Stdout); err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				a.cfg.App.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.App.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(a)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")

	return cmd
}

func runServe(a *app) error {
	cfg := a.cfg
	log := logger.Get()

	handler := server.NewHandler(cfg, a.service())
	srv := &http.Server{
		Addr:              cfg.App.Address(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("application starting",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("build_time", BuildTime),
		slog.String("host", cfg.App.Host),
		slog.Int("port", cfg.App.Port),
		slog.String("advertised_address", cfg.App.AdvertisedAddress),
		slog.Duration("lookup_timeout", cfg.Lookup.Timeout),
		slog.Bool("structured_fallback", cfg.Lookup.StructuredFallback),
		slog.Bool("registrable", cfg.Lookup.Registrable),
		slog.String("log_level", cfg.Log.Level),
		slog.String("log_format", cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Lookup.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

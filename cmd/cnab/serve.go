package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/cnab-must-flow/internal/api"
	"github.com/Veraticus/cnab-must-flow/internal/certs"
	"github.com/Veraticus/cnab-must-flow/internal/config"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the import API over HTTP",
		Long: `Start an HTTP server exposing:

  POST /api/transactions/import   upload a CNAB file (multipart field "file")
  GET  /api/stores/balances       store balances
  GET  /api/imports               import history
  GET  /healthz                   health check`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: "+config.DefaultServerAddr+")")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	log := slog.Default().With("component", "api")
	handler := api.NewHandler(newFileImporter(store, cfg), store, log)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.TLS {
		manager := certs.NewManager(cfg.CertDir, certs.HostsFromAddr(cfg.ServerAddr)...)
		tlsConfig, err := manager.TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		server.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting API server",
			"addr", cfg.ServerAddr,
			"tls", cfg.TLS,
			"database", cfg.DatabasePath,
			"timezone", cfg.Timezone)

		var err error
		if cfg.TLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sagarc03/dirindex/config"
	dirhttp "github.com/sagarc03/dirindex/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the dirindex HTTP server.

Every configured mount is validated and its root directory opened before
the server starts listening. The server stops gracefully on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5709, "HTTP server port (env: DIRINDEX_SERVER_PORT)")
	serveCmd.Flags().String("host", "", "address to listen on (env: DIRINDEX_SERVER_HOST)")
	serveCmd.Flags().Bool("minify", false, "minify rendered listings (env: DIRINDEX_SERVER_MINIFY)")
	serveCmd.Flags().String("apps-dir", "", "base directory for app mounts (env: DIRINDEX_SERVER_APPS_DIR)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	mounts, err := openMounts(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := mounts.Close(); err != nil {
			slog.Warn("failed to close mounts", "err", err)
		}
	}()

	handlerConfig := dirhttp.HandlerConfig{
		Routes: mounts.Routes(),
		CORS:   cfg.CORS,
	}
	handler := dirhttp.NewHandler(&handlerConfig)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr, "mounts", len(handlerConfig.Routes))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

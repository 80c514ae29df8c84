package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/api"
	"github.com/coachlab/coachlab/internal/archive"
	"github.com/coachlab/coachlab/internal/enrich"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/reply"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		port      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local coaching API server",
		Long: `Starts an HTTP server that serves the coaching API and, optionally, a static
frontend. Sessions are archived in memory with transcripts on local disk.

Usage:
  coachlab serve --port 3000 --static-dir ./frontend
  curl -XPOST localhost:3000/api/coach -d '{"managerMessage":"How can I help?"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(*configPath)
			if err != nil {
				return err
			}
			cfg.Server.Port = firstNonEmpty(port, cfg.Server.Port)
			cfg.Server.StaticDir = firstNonEmpty(staticDir, cfg.Server.StaticDir)
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to serve on (default 3000)")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Directory of frontend files to serve")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	handler, err := newLocalHandler(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: api.NewRouter(handler, api.RouterOptions{
			StaticDir: cfg.Server.StaticDir,
			APIKey:    cfg.Server.APIKey,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Coachlab API listening on http://localhost:%s\n", cfg.Server.Port)
		if cfg.Server.StaticDir != "" {
			fmt.Fprintf(os.Stderr, "Serving frontend from %s\n", cfg.Server.StaticDir)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLocalHandler wires the coach to an in-memory index and local transcripts.
func newLocalHandler(cfg *config.Config, logger *zap.Logger) (*api.Handler, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	enricher, err := enrich.New(cfg.Enrichment, logger)
	if err != nil {
		return nil, err
	}

	arch := archive.New(archive.NewMemoryIndex(), archive.NewLocalStorage(cfg.Storage.LocalPath), logger)
	c := coach.New(engine, reply.NewSimulator(nil), enricher, logger)
	return api.NewHandler(c, arch, api.NewTranscriptCache(cfg.Server.TranscriptCacheSize), logger), nil
}

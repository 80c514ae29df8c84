// Command coachlabd is the coachlab platform service.
// It serves the coaching API, Prometheus metrics, and a health check, and
// archives sessions to Postgres and blob storage when configured.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/api"
	"github.com/coachlab/coachlab/internal/archive"
	"github.com/coachlab/coachlab/internal/enrich"
	"github.com/coachlab/coachlab/internal/platform"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/reply"
	"github.com/coachlab/coachlab/pkg/scoring"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("coachlabd exited", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           svc.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting coachlabd",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Backend),
			zap.Bool("postgres", cfg.Database.URL != ""),
			zap.String("enrichment", cfg.Enrichment.Provider),
		)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// service holds the wired handler and the resources it owns.
type service struct {
	handler http.Handler
	closers []io.Closer
}

func (s *service) Close() {
	for _, c := range s.closers {
		c.Close()
	}
}

func buildService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service, error) {
	svc := &service{}

	rubric, err := cfg.Rubric()
	if err != nil {
		return nil, fmt.Errorf("building rubric: %w", err)
	}
	engine := scoring.NewEngine(scoring.MetricsFromRubric(rubric)...)

	enricher, err := enrich.New(cfg.Enrichment, logger)
	if err != nil {
		return nil, err
	}

	index, db, err := openIndex(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if db != nil {
		svc.closers = append(svc.closers, db)
	}

	blobs, err := archive.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		svc.Close()
		return nil, err
	}
	if c, ok := blobs.(io.Closer); ok {
		svc.closers = append(svc.closers, c)
	}

	c := coach.New(engine, reply.NewSimulator(nil), enricher, logger)
	arch := archive.New(index, blobs, logger)
	h := api.NewHandler(c, arch, api.NewTranscriptCache(cfg.Server.TranscriptCacheSize), logger)

	svc.handler = api.NewRouter(h, api.RouterOptions{
		StaticDir: cfg.Server.StaticDir,
		APIKey:    cfg.Server.APIKey,
		Metrics:   promhttp.Handler(),
	})
	return svc, nil
}

// openIndex returns a Postgres index when a database URL is configured and
// an in-memory index otherwise.
func openIndex(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (archive.Index, *sql.DB, error) {
	if cfg.URL == "" {
		logger.Warn("DATABASE_URL not set, session index is in-memory")
		return archive.NewMemoryIndex(), nil, nil
	}

	db, err := platform.OpenPostgres(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := platform.AutoMigrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("database migrations applied")
	}
	return archive.NewPostgresIndex(db), db, nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/coursegest/internal/config"
	"github.com/dgallion1/coursegest/internal/engine"
	"github.com/dgallion1/coursegest/internal/images"
	"github.com/dgallion1/coursegest/internal/pipeline"
)

// Run wires the resolver, engine and worker pool behind the HTTP API and
// serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	resolver := images.New(cfg.ImageOptions(), log.With("component", "images"))
	eng := engine.New(resolver, log.With("component", "engine"),
		engine.WithParserOptions(cfg.ParserOptions()))

	orch := pipeline.NewOrchestrator(cfg, eng, log.With("component", "pipeline"))
	orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewServer(orch, resolver, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting coursegest", "port", cfg.Port, "workers", cfg.WorkerCount, "image_root", cfg.ImageRoot)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	orch.Stop()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

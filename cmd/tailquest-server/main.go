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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tailquest/tailquest/internal/config"
	"github.com/tailquest/tailquest/internal/database"
	"github.com/tailquest/tailquest/internal/progress"
	"github.com/tailquest/tailquest/internal/server"
	"github.com/tailquest/tailquest/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TAILQUEST_CONFIG"))
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	progressStore, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := progress.NewTracker(progressStore, logger)
	handler, err := server.NewProgressHandler(tracker, logger)
	if err != nil {
		return fmt.Errorf("server.NewProgressHandler() > %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	chain := server.RequestLogMiddleware(logger, server.CORSMiddleware(cfg.Server.CORSOrigin, mux))
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: h2c.NewHandler(chain, &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", cfg.Server.Address, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("srv.ListenAndServe() > %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown() > %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (progress.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	case config.StoreBackendFile:
		fileStore, err := store.NewFileStore(cfg.Store.FilePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("store.NewFileStore(%s) > %w", cfg.Store.FilePath, err)
		}
		return fileStore, func() {}, nil
	case config.StoreBackendMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return store.NewMySQLStore(db), func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

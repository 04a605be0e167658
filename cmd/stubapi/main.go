// Package main runs the development backend the jewel client talks to.
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

	"github.com/jewelapp/jewel-client/internal/auth"
	"github.com/jewelapp/jewel-client/internal/config"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/stubapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	keyHex := cfg.Stub.AccessTokenKey
	if keyHex == "" {
		keyHex, err = auth.LoadOrGenerateKey(cfg.Storage.DataPath)
		if err != nil {
			return err
		}
	}
	tokens, err := auth.NewTokenService(keyHex, cfg.Stub.AccessTokenDuration)
	if err != nil {
		return err
	}

	store, err := stubapi.OpenStore(cfg.Stub.DatabasePath, log.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Stub.Seed {
		if err := store.Seed(context.Background()); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		log.Info("Sample catalog seeded")
	}

	server := stubapi.NewServer(store, tokens, log.Logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Stub.Port,
		Handler:      server,
		ReadTimeout:  cfg.Stub.ReadTimeout,
		WriteTimeout: cfg.Stub.WriteTimeout,
		IdleTimeout:  cfg.Stub.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Development backend listening",
			"addr", httpServer.Addr,
			"database", cfg.Stub.DatabasePath,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

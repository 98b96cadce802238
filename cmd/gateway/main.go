package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tessera-labs/admission/internal/config"
	"github.com/tessera-labs/admission/internal/gateway"
	"github.com/tessera-labs/admission/internal/identity"
	"github.com/tessera-labs/admission/pkg/limiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.Ldate|log.Ltime)

	var opts []limiter.Option
	if cfg.RateLimit.Shards > 0 {
		opts = append(opts, limiter.WithShardCount(cfg.RateLimit.Shards))
	}

	lim, err := limiter.NewFixedWindow(limiter.Limit{
		Rate:   cfg.RateLimit.Requests,
		Window: cfg.RateLimit.Window(),
	}, opts...)
	if err != nil {
		log.Fatalf("failed to create limiter: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if every := cfg.RateLimit.SweepInterval(); every > 0 {
		lim.StartSweeper(ctx, every)
	}

	auth := identity.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)
	resolver := identity.NewResolver(auth)

	gw := gateway.New(gateway.Config{
		Enabled:     cfg.RateLimit.Enabled,
		MaxRequests: cfg.RateLimit.Requests,
	}, lim, resolver, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: gw.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	logger.Printf("admission gateway listening on %s (rate %d per %s, enabled=%t)",
		cfg.Addr, cfg.RateLimit.Requests, cfg.RateLimit.Window(), cfg.RateLimit.Enabled)

	select {
	case <-ctx.Done():
		logger.Println("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
}

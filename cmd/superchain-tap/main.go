// Package main is a demonstration entry point wiring configuration,
// logging, and both transports together: it reads the indexed height
// over both transports, opens a WebSocket subscription for live pair
// creations, and serves a /healthz and /readyz endpoint over the
// WebSocket client's connection state.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/branched-services/superchain-client/internal/config"
	"github.com/branched-services/superchain-client/internal/logging"
	"github.com/branched-services/superchain-client/pkg/health"
	"github.com/branched-services/superchain-client/pkg/httpclient"
	"github.com/branched-services/superchain-client/pkg/wsclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	code := 0
	if err := run(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		code = 1
	}

	os.Exit(code)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("starting superchain tap", "http_url", cfg.HTTPBaseURL, "ws_url", cfg.WSURL)

	header := make(http.Header)
	if auth := cfg.AuthHeaderValue(); auth != "" {
		header.Set("Authorization", auth)
	}

	wsClient, err := wsclient.Dial(ctx, cfg.WSURL, header, wsclient.WithLogger(logging.Component(logger, "wsclient")))
	if err != nil {
		return fmt.Errorf("dialing websocket: %w", err)
	}
	defer wsClient.Close()

	httpClient, err := httpclient.New(cfg.HTTPBaseURL)
	if err != nil {
		return fmt.Errorf("building http client: %w", err)
	}
	if auth := cfg.AuthHeaderValue(); auth != "" {
		httpClient = httpClient.WithDefaultHeaders(header)
	}

	healthServer := health.NewServer(":8080", wsClient, logger)

	errCh := make(chan error, 2)

	go func() {
		if err := healthServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()

	go func() {
		if err := demo(ctx, wsClient, httpClient, logger); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("demo run: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal")
	case err := <-errCh:
		slog.Error("component failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("health server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// demo exercises both transports once: the current indexed height over
// each, followed by one live pair-creation subscription, printing rows
// as they arrive. It is illustrative, not a production ingestion loop.
func demo(ctx context.Context, ws *wsclient.Client, hc *httpclient.Client, logger *slog.Logger) error {
	wsHeight, err := ws.GetHeight(ctx)
	if err != nil {
		return fmt.Errorf("ws get height: %w", err)
	}
	httpHeight, err := hc.GetHeight(ctx)
	if err != nil {
		return fmt.Errorf("http get height: %w", err)
	}
	logger.Info("indexed height", "ws", wsHeight, "http", httpHeight)

	dec, id, err := ws.GetPairsCreated(ctx, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("subscribing to pair creations: %w", err)
	}
	logger.Info("subscribed to pair creations", "subscription_id", id)

	for {
		rec, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading pair created record: %w", err)
		}
		logger.Info("pair created", "pair", rec.Pair.String(), "block", rec.BlockNumber)
	}
}

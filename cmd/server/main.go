package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/fxbridge/pkg/config"
	"github.com/amirasaad/fxbridge/pkg/metrics"
	"github.com/amirasaad/fxbridge/pkg/provider/binance"
	"github.com/amirasaad/fxbridge/pkg/rates"
	"github.com/amirasaad/fxbridge/pkg/service/conversion"
	"github.com/amirasaad/fxbridge/webapi"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title fxbridge API
// @version 1.0.0
// @description Converts between USD, EUR and GBP using BTC quotes as the bridge.
// @host localhost:8080
// @BasePath /
func main() {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	fetcher := binance.New(cfg.Exchange, m, logger)
	cache := rates.NewCache(fetcher, cfg.Exchange.CacheTTL(), m, logger)
	svc := conversion.New(cache, m, logger)

	app := webapi.New(svc)

	// Metrics listener runs beside the API on its own address.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("starting metrics server", "address", cfg.Server.MetricsAddr)
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", cfg.Server.HTTPAddr)
		errCh <- app.Listen(cfg.Server.HTTPAddr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

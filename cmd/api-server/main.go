package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/odontosoft/clinic-scheduling/internal/api"
	"github.com/odontosoft/clinic-scheduling/internal/booking"
	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/config"
	"github.com/odontosoft/clinic-scheduling/internal/invoice"
	"github.com/odontosoft/clinic-scheduling/internal/lock"
	"github.com/odontosoft/clinic-scheduling/internal/logging"
	"github.com/odontosoft/clinic-scheduling/internal/metrics"
	"github.com/odontosoft/clinic-scheduling/internal/seed"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("clinic-api", "dev")
		log.Fatal().Err(err).Msg("config load error")
	}

	logging.Init("clinic-api", cfg.Env)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := clinic.NewRegistry()
	if cfg.SeedDemoData {
		if err := seed.Load(registry, cfg.SeedPatients); err != nil {
			log.Fatal().Err(err).Msg("seed demo data")
		}
	}

	m := metrics.NewClinicMetrics(prometheus.DefaultRegisterer)

	bookingRepo := booking.NewMemoryRepository()
	bookingSvc := booking.NewService(bookingRepo, registry, lock.NewKeyedLocker(), m)

	invoiceRepo := invoice.NewMemoryRepository()
	invoiceSvc := invoice.NewService(invoiceRepo, registry, m)

	router := api.NewRouter(api.RouterConfig{
		Bookings: bookingSvc,
		Invoices: invoiceSvc,
		Registry: registry,
		Env:      cfg.Env,
		Version:  version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("api-server stopped")
}

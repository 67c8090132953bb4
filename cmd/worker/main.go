// Package main provides the entrypoint for the AirGlobe background worker.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/airquality"
	"github.com/airglobe/airglobe/internal/cache"
	"github.com/airglobe/airglobe/internal/config"
	"github.com/airglobe/airglobe/internal/forecast"
	"github.com/airglobe/airglobe/internal/provider/resilience"
	"github.com/airglobe/airglobe/internal/source/meteo"
	"github.com/airglobe/airglobe/internal/source/openaq"
	"github.com/airglobe/airglobe/internal/source/tempo"
	"github.com/airglobe/airglobe/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airglobe-worker"

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup structured logging
	log := newLogger(cfg, serviceName)

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting AirGlobe worker")

	// The worker drives the same assembly pipeline as the API so every warm
	// pass exercises the gateways end to end.
	registry := resilience.GlobalRegistry

	newGatewayClient := func(name string) *resilience.Client {
		clientCfg := resilience.DefaultClientConfig(name)
		clientCfg.Timeout = cfg.SourceTimeout
		clientCfg.Registry = registry
		return resilience.NewClient(clientCfg)
	}

	satellite := tempo.NewAdapter(tempo.Config{
		BaseURL:    cfg.TempoGatewayURL,
		HTTPClient: newGatewayClient(tempo.ProviderName),
		Logger:     log,
	})

	ground := openaq.NewAdapter(openaq.Config{
		BaseURL:    cfg.OpenAQGatewayURL,
		HTTPClient: newGatewayClient(openaq.ProviderName),
		Logger:     log,
	})

	weather := meteo.NewAdapter(meteo.Config{
		BaseURL:    cfg.MeteoGatewayURL,
		HTTPClient: newGatewayClient(meteo.ProviderName),
		Logger:     log,
	})

	engine := forecast.NewEngine(forecast.EngineConfig{Logger: log})
	recordCache := cache.New[*airquality.Record](cfg.CacheTTL)

	service := airquality.NewService(airquality.ServiceConfig{
		Satellite:      satellite,
		Ground:         ground,
		Weather:        weather,
		Forecaster:     engine,
		Cache:          recordCache,
		Logger:         log,
		FetchTimeout:   cfg.SourceTimeout,
		GroundRadiusKM: cfg.GroundRadiusKM,
		HistoryDays:    cfg.HistoryDays,
	})

	// Resolve warm targets from configuration
	targets, unknown := worker.TargetsForCities(cfg.WarmCities)
	if len(unknown) > 0 {
		log.Warn().
			Strs("cities", unknown).
			Msg("ignoring unknown warm cities")
	}

	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Config: worker.WarmConfig{
			Targets:     targets,
			Concurrency: cfg.WarmConcurrency,
		},
		Logger:      log,
		Coordinator: service,
	})

	sweepJob := worker.NewSweepJob(recordCache, log)

	sched, err := worker.NewScheduler(worker.SchedulerConfig{
		WarmJob:       warmJob,
		WarmInterval:  cfg.WarmInterval,
		SweepJob:      sweepJob,
		SweepInterval: cfg.SweepInterval,
		Logger:        log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	log.Info().
		Dur("warm_interval", cfg.WarmInterval).
		Dur("sweep_interval", cfg.SweepInterval).
		Int("warm_concurrency", cfg.WarmConcurrency).
		Msg("scheduler configured")

	sched.Start()

	// Health endpoint so orchestrators can probe the worker
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "OK",
			"service": serviceName,
			"version": Version,
			"warm":    warmJob.MetricsSnapshot(),
			"sweep":   sweepJob.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("health server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func newLogger(cfg *config.Config, serviceName string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()
}

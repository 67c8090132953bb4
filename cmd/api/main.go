// Package main provides the entrypoint for the AirGlobe API server.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/airquality"
	"github.com/airglobe/airglobe/internal/api"
	"github.com/airglobe/airglobe/internal/api/middleware"
	"github.com/airglobe/airglobe/internal/cache"
	"github.com/airglobe/airglobe/internal/config"
	"github.com/airglobe/airglobe/internal/forecast"
	"github.com/airglobe/airglobe/internal/provider/resilience"
	"github.com/airglobe/airglobe/internal/source/meteo"
	"github.com/airglobe/airglobe/internal/source/openaq"
	"github.com/airglobe/airglobe/internal/source/tempo"
	"github.com/airglobe/airglobe/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airglobe-api"

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
		Msg("starting AirGlobe API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	sourceMetrics, err := middleware.NewSourceMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize source metrics")
		os.Exit(1)
	}

	// Resilient gateway clients, registered for /status reporting
	registry := resilience.GlobalRegistry

	newGatewayClient := func(name string) *resilience.Client {
		clientCfg := resilience.DefaultClientConfig(name)
		clientCfg.Timeout = cfg.SourceTimeout
		clientCfg.Registry = registry
		return resilience.NewClient(clientCfg)
	}

	// Source adapters. An empty gateway URL switches the satellite and
	// weather adapters to estimates and the ground adapter to absence.
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

	// Forecast engine, record cache, and the fusion service itself
	engine := forecast.NewEngine(forecast.EngineConfig{Logger: log})
	recordCache := cache.New[*airquality.Record](cfg.CacheTTL)

	service := airquality.NewService(airquality.ServiceConfig{
		Satellite:      satellite,
		Ground:         ground,
		Weather:        weather,
		Forecaster:     engine,
		Cache:          recordCache,
		Logger:         log,
		Recorder:       sourceMetrics,
		FetchTimeout:   cfg.SourceTimeout,
		GroundRadiusKM: cfg.GroundRadiusKM,
		HistoryDays:    cfg.HistoryDays,
	})

	log.Info().
		Bool("tempo_gateway", cfg.TempoGatewayURL != "").
		Bool("openaq_gateway", cfg.OpenAQGatewayURL != "").
		Bool("meteo_gateway", cfg.MeteoGatewayURL != "").
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("fusion service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		AirQuality:         service,
		Cache:              recordCache,
		Registry:           registry,
		RateLimitRPM:       cfg.RateLimitRPM,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
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

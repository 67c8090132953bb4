// Package api provides the HTTP API for AirGlobe.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/api/handler"
	"github.com/airglobe/airglobe/internal/api/middleware"
	"github.com/airglobe/airglobe/internal/api/response"
	"github.com/airglobe/airglobe/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// AirQuality assembles air quality records for /v1/air-quality.
	AirQuality handler.AirQualityService
	// Cache reports record cache occupancy for /status. Optional.
	Cache handler.CacheStats
	// Registry reports source gateway health for /status. Optional.
	Registry *resilience.Registry

	// RateLimitRPM bounds /v1 requests per client IP per minute.
	// Default: middleware.StandardRateLimit.
	RateLimitRPM int
	// CORSAllowedOrigins lists origins allowed by CORS. Default: ["*"].
	CORSAllowedOrigins []string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "airglobe-api"
	}

	allowedOrigins := cfg.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)

	// CORS for browser clients; the read-only API exposes only GET.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.ContentTypeJSON) // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		ServiceName: serviceName,
		Version:     cfg.Version,
		BuildTime:   cfg.BuildTime,
		Cache:       cfg.Cache,
		Registry:    cfg.Registry,
	})
	airQualityHandler := handler.NewAirQualityHandler(cfg.AirQuality)
	citiesHandler := handler.NewCitiesHandler()

	// Rate limit for the v1 API
	rateLimit := middleware.StandardRateLimit
	if cfg.RateLimitRPM > 0 {
		rateLimit = middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimitRPM,
			WindowLength: time.Minute,
		}
	}
	standardRateLimit := middleware.RateLimitByIP(rateLimit)

	// Unknown paths and methods render problems like every other error
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r, fmt.Sprintf("method %s is not allowed", r.Method))
	})

	// Ops endpoints (public, not rate limited so probes never starve)
	r.Get("/healthz", opsHandler.HealthCheck)
	r.Get("/readyz", opsHandler.ReadinessCheck)
	r.Get("/status", opsHandler.SystemStatus)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(standardRateLimit)

		r.Get("/air-quality", airQualityHandler.Get)

		r.Route("/cities", func(r chi.Router) {
			r.Get("/search", citiesHandler.Search)
			r.Get("/nearest", citiesHandler.Nearest)
		})
	})

	return r
}

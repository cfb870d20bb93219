package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/adapters/workbook"
	"github.com/capintel/portfolio-engine/pkg/auth"
	"github.com/capintel/portfolio-engine/pkg/cache"
	"github.com/capintel/portfolio-engine/pkg/config"
	"github.com/capintel/portfolio-engine/pkg/handlers"
	"github.com/capintel/portfolio-engine/pkg/middleware"
	"github.com/capintel/portfolio-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("workbook", cfg.Workbook.Path),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.Bool("view_cache", cfg.Redis.Host != ""))

	// Data pipeline: reader -> normalizer -> dataset, memoized per file
	// signature.
	datasetService := services.NewDatasetService(cfg.Workbook.Path, workbook.NewXLSXReader(), logger)
	filterService := services.NewFilterService()
	aggregation := services.NewAggregationService()
	drilldown := services.NewDrilldownService()

	// Optional Redis-backed memoization of computed views.
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	viewCache := services.NewViewCache(redisClient, time.Duration(cfg.Redis.ViewTTLSeconds)*time.Second, logger)

	// Access gate: JWKS-validated tokens exchanged for cookie sessions.
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	sessionStore := auth.NewSessionStore(cfg.Auth.SessionSecret)
	authService := auth.NewAuthService(jwksClient, sessionStore, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	sessionHandler := handlers.NewSessionHandler(authService, sessionStore, logger)
	sessionHandler.RegisterRoutes(mux)

	dashboardHandler := handlers.NewDashboardHandler(
		datasetService, filterService, aggregation, drilldown, viewCache, logger)
	dashboardHandler.RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting portfolio-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds the zap logger for the environment: structured JSON
// in production, console output everywhere else.
func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

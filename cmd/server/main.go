// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wasteless-ai/backend-go/internal/api"
	"github.com/wasteless-ai/backend-go/internal/cache"
	"github.com/wasteless-ai/backend-go/internal/chat"
	"github.com/wasteless-ai/backend-go/internal/config"
	"github.com/wasteless-ai/backend-go/internal/dataset"
	"github.com/wasteless-ai/backend-go/internal/forecast"
	"github.com/wasteless-ai/backend-go/internal/ordering"
	"github.com/wasteless-ai/backend-go/internal/reasoning"
	"github.com/wasteless-ai/backend-go/internal/repository"
	"github.com/wasteless-ai/backend-go/internal/repository/postgres"
	"github.com/wasteless-ai/backend-go/internal/service"
	"github.com/wasteless-ai/backend-go/internal/weather"
	"github.com/wasteless-ai/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	history, snapshots := openDataBackend(cfg)

	registry, err := forecast.LoadRegistry(cfg.Dataset.ModelsDir)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("dir", cfg.Dataset.ModelsDir).Msg("Failed to load forecast models")
	}

	weatherCache, err := cache.NewWeatherCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Weather cache unavailable, continuing without caching")
		weatherCache = cache.NewNoopWeatherCache()
	}
	weatherProvider := weather.NewProvider(weather.NewClient(cfg.Weather), weatherCache)

	var engine reasoning.Engine
	if gemini, err := reasoning.NewGeminiEngine(context.Background(), cfg.Gemini); err != nil {
		logger.Log.Warn().Err(err).Msg("Reasoning engine unavailable, using deterministic fallbacks")
	} else {
		engine = gemini
		defer gemini.Close()
	}

	analysis := service.NewAnalysisService(
		history,
		snapshots,
		forecast.NewForecaster(registry),
		weatherProvider,
		engine,
		ordering.NewRecommender(ordering.DefaultConfig()),
	)
	insights := service.NewInsightsService(analysis)
	assistant := chat.NewAssistant(analysis, insights, engine)

	router := api.NewRouter(&api.Services{
		Analysis:  analysis,
		Insights:  insights,
		Assistant: assistant,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// openDataBackend picks the sales history source: the CSV dataset by default,
// Postgres when configured.
func openDataBackend(cfg *config.Config) (repository.SalesHistory, repository.InventorySnapshots) {
	if cfg.Dataset.Backend == "postgres" {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		repo := postgres.NewSalesRepository(db)
		return repo, repo
	}

	store, err := dataset.Open(cfg.Dataset.SalesFile, cfg.Dataset.InventoryFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	return store, store
}

// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wasteless-ai/backend-go/internal/api/handlers"
	"github.com/wasteless-ai/backend-go/internal/api/middleware"
	"github.com/wasteless-ai/backend-go/internal/chat"
	"github.com/wasteless-ai/backend-go/internal/service"
)

type Services struct {
	Analysis  *service.AnalysisService
	Insights  *service.InsightsService
	Assistant *chat.Assistant
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Analysis != nil {
			analysisHandler := handlers.NewAnalysisHandler(services.Analysis, services.Insights)
			apiGroup.GET("/products", analysisHandler.GetProducts)

			productGroup := apiGroup.Group("/products/:product")
			{
				productGroup.GET("/forecast", analysisHandler.GetForecast)
				productGroup.GET("/trend", analysisHandler.GetTrend)
				productGroup.GET("/status", analysisHandler.GetStatus)
				productGroup.GET("/weather-impact", analysisHandler.GetWeatherImpact)
				productGroup.GET("/pricing", analysisHandler.GetPricing)
				productGroup.GET("/discount", analysisHandler.GetDiscount)
				productGroup.GET("/inventory-pricing", analysisHandler.GetInventoryPricing)
				productGroup.GET("/order", analysisHandler.GetOrderRecommendation)
				productGroup.GET("/supplier-order", analysisHandler.GetSupplierOrder)
			}

			if services.Insights != nil {
				apiGroup.GET("/orders", analysisHandler.GetAllOrders)
				apiGroup.GET("/insights/discounts", analysisHandler.GetUrgentDiscounts)
			}

			apiGroup.GET("/inventory/report", analysisHandler.GetInventoryReport)
			apiGroup.GET("/weather/forecast", analysisHandler.GetWeatherForecast)
		}

		if services.Assistant != nil {
			chatHandler := handlers.NewChatHandler(services.Assistant)
			chatGroup := apiGroup.Group("/chat")
			{
				chatGroup.POST("", chatHandler.PostMessage)
				chatGroup.GET("/greeting", chatHandler.GetGreeting)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

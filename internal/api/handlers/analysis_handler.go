package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/service"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
	insights *service.InsightsService
}

func NewAnalysisHandler(analysis *service.AnalysisService, insights *service.InsightsService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, insights: insights}
}

func (h *AnalysisHandler) GetProducts(c *gin.Context) {
	products, err := h.analysis.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *AnalysisHandler) GetForecast(c *gin.Context) {
	fc, err := h.analysis.Forecast(c.Request.Context(), c.Param("product"), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func (h *AnalysisHandler) GetTrend(c *gin.Context) {
	trend, err := h.analysis.Trend(c.Request.Context(), c.Param("product"), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	status, err := h.analysis.CurrentStatus(c.Request.Context(), c.Param("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *AnalysisHandler) GetWeatherForecast(c *gin.Context) {
	fc, err := h.analysis.WeatherForecast(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func (h *AnalysisHandler) GetWeatherImpact(c *gin.Context) {
	impact, err := h.analysis.WeatherImpact(c.Request.Context(), c.Param("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, impact)
}

// GetPricing runs the performance-vs-expiry policy.
func (h *AnalysisHandler) GetPricing(c *gin.Context) {
	result, err := h.analysis.DiscountAnalysis(c.Request.Context(), c.Param("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDiscount runs the waste-rate policy.
func (h *AnalysisHandler) GetDiscount(c *gin.Context) {
	rec, err := h.analysis.WasteDiscount(c.Request.Context(), c.Param("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetInventoryPricing runs the reasoning-backed inventory pricing analysis.
func (h *AnalysisHandler) GetInventoryPricing(c *gin.Context) {
	result, err := h.analysis.InventoryPricing(c.Request.Context(), c.Param("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) GetOrderRecommendation(c *gin.Context) {
	rec, err := h.analysis.OrderRecommendation(c.Request.Context(), c.Param("product"), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *AnalysisHandler) GetSupplierOrder(c *gin.Context) {
	order, err := h.analysis.SupplierOrder(c.Request.Context(), c.Param("product"), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AnalysisHandler) GetAllOrders(c *gin.Context) {
	recs, err := h.insights.AllOrderRecommendations(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (h *AnalysisHandler) GetInventoryReport(c *gin.Context) {
	report, err := h.analysis.InventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) GetUrgentDiscounts(c *gin.Context) {
	insights, err := h.insights.UrgentDiscounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

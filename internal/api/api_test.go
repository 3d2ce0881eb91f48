package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasteless-ai/backend-go/internal/chat"
	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/forecast"
	"github.com/wasteless-ai/backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memHistory struct {
	records map[string][]domain.SalesRecord
}

func (h *memHistory) Products(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(h.records))
	for p := range h.records {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (h *memHistory) GetRecent(ctx context.Context, product string, days int) ([]domain.SalesRecord, error) {
	recs, ok := h.records[product]
	if !ok {
		return nil, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	if days > 0 && len(recs) > days {
		recs = recs[len(recs)-days:]
	}
	return recs, nil
}

func (h *memHistory) Latest(ctx context.Context, product string) (domain.SalesRecord, error) {
	recs, ok := h.records[product]
	if !ok || len(recs) == 0 {
		return domain.SalesRecord{}, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	return recs[len(recs)-1], nil
}

type memSnapshots struct {
	batches []domain.InventoryBatch
}

func (s *memSnapshots) CurrentBatches(ctx context.Context, product string) ([]domain.InventoryBatch, error) {
	if product == "" {
		return s.batches, nil
	}
	var out []domain.InventoryBatch
	for _, b := range s.batches {
		if b.Product == product {
			out = append(out, b)
		}
	}
	return out, nil
}

type fixedWeather struct{}

func (fixedWeather) Forecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, string) {
	days := make([]domain.WeatherDay, daysAhead)
	for i := range days {
		days[i] = domain.WeatherDay{Day: i + 1, Temperature: 65, Description: "Mild and Clear"}
	}
	return days, "mock"
}

type flatModel struct{}

func (flatModel) Predict(features []forecast.FutureFeatures) ([]forecast.Prediction, error) {
	out := make([]forecast.Prediction, len(features))
	for i := range out {
		out[i] = forecast.Prediction{Yhat: 10, YhatLower: 8, YhatUpper: 12}
	}
	return out, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	records := make([]domain.SalesRecord, 7)
	for i := range records {
		records[i] = domain.SalesRecord{
			Product:        "Milk",
			Date:           today.AddDate(0, 0, i-6),
			QuantitySold:   8,
			QuantityWasted: 2,
			Temperature:    65,
		}
	}

	history := &memHistory{records: map[string][]domain.SalesRecord{"Milk": records}}
	snapshots := &memSnapshots{batches: []domain.InventoryBatch{{
		Product:        "Milk",
		BatchID:        "B-001",
		DateAcquired:   today.AddDate(0, 0, -3),
		ExpirationDate: today.AddDate(0, 0, 4),
		Quantity:       40,
	}}}

	registry := forecast.NewRegistry(map[string]forecast.Model{"Milk": flatModel{}})
	analysis := service.NewAnalysisService(history, snapshots, forecast.NewForecaster(registry), fixedWeather{}, nil, nil)
	insights := service.NewInsightsService(analysis)

	return NewRouter(&Services{
		Analysis:  analysis,
		Insights:  insights,
		Assistant: chat.NewAssistant(analysis, insights, nil),
	}, nil)
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, testRouter(t), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetProducts(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products []string `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Milk"}, body.Products)
}

func TestGetForecast(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/products/Milk/forecast?days=3")
	require.Equal(t, http.StatusOK, w.Code)

	var fc domain.Forecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "Milk", fc.Product)
	assert.Equal(t, 3, fc.ForecastDays)
	assert.Equal(t, "mock", fc.WeatherSource)
	assert.InDelta(t, 30, fc.TotalPredicted, 1e-9)
}

func TestUnknownProductIs404(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/products/Eggs/forecast")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestBadDaysIs400(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/products/Milk/forecast?days=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDiscount(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/products/Milk/discount")
	require.Equal(t, http.StatusOK, w.Code)

	var rec domain.DiscountRecommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.True(t, rec.NeedsDiscount)
	assert.Equal(t, domain.UrgencyMedium, rec.Urgency)
	assert.Equal(t, "fallback", rec.Source)
}

func TestGetInventoryReport(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/inventory/report")
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Summary struct {
			TotalInventory int `json:"total_inventory"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 40, report.Summary.TotalInventory)
}

func TestGetWeatherForecast(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/weather/forecast?days=3")
	require.Equal(t, http.StatusOK, w.Code)

	var body service.WeatherForecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mock", body.Source)
	assert.Len(t, body.Days, 3)
}

func TestGetUrgentDiscounts(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/insights/discounts")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Insights []service.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Insights, 1)
	assert.Equal(t, "Milk", body.Insights[0].Product)
}

func TestChatRequiresMessage(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"session_id":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"message is required"}`, w.Body.String())
}

func TestChatRoundTrip(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"how is Milk doing?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.SessionID)
	assert.NotEmpty(t, reply.Response)
}

func TestChatGreeting(t *testing.T) {
	w := get(t, testRouter(t), "/api/v1/chat/greeting")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Greeting string `json:"greeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Greeting)
}

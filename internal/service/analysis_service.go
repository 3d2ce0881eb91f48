package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wasteless-ai/backend-go/internal/analytics"
	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/forecast"
	"github.com/wasteless-ai/backend-go/internal/inventory"
	"github.com/wasteless-ai/backend-go/internal/ordering"
	"github.com/wasteless-ai/backend-go/internal/pricing"
	"github.com/wasteless-ai/backend-go/internal/reasoning"
	"github.com/wasteless-ai/backend-go/internal/repository"
)

const (
	statsWindowDays = 7
	trendWindowDays = 30
)

// WeatherProvider yields a weather sequence plus its provenance.
type WeatherProvider interface {
	Forecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, string)
}

// AnalysisService answers all per-product analysis questions: forecasts,
// trends, status, pricing, and order recommendations.
type AnalysisService struct {
	history     repository.SalesHistory
	snapshots   repository.InventorySnapshots
	forecaster  *forecast.Forecaster
	weather     WeatherProvider
	engine      reasoning.Engine
	recommender *ordering.Recommender
	now         func() time.Time
}

func NewAnalysisService(
	history repository.SalesHistory,
	snapshots repository.InventorySnapshots,
	forecaster *forecast.Forecaster,
	weatherProvider WeatherProvider,
	engine reasoning.Engine,
	recommender *ordering.Recommender,
) *AnalysisService {
	if recommender == nil {
		recommender = ordering.NewRecommender(ordering.DefaultConfig())
	}
	return &AnalysisService{
		history:     history,
		snapshots:   snapshots,
		forecaster:  forecaster,
		weather:     weatherProvider,
		engine:      engine,
		recommender: recommender,
		now:         time.Now,
	}
}

func (s *AnalysisService) Products(ctx context.Context) ([]string, error) {
	return s.history.Products(ctx)
}

// Forecast predicts daysAhead days of demand starting the day after the
// product's most recent sales record.
func (s *AnalysisService) Forecast(ctx context.Context, product string, daysAhead int) (*domain.Forecast, error) {
	if daysAhead < 1 {
		return nil, fmt.Errorf("days_ahead must be >= 1: %w", domain.ErrInvalidInput)
	}

	latest, err := s.history.Latest(ctx, product)
	if err != nil {
		return nil, err
	}

	weatherDays, source := s.weather.Forecast(ctx, daysAhead)

	return s.forecaster.Forecast(product, latest.Date, daysAhead, weatherDays, source)
}

// WeatherForecast is the raw weather sequence plus its provenance.
type WeatherForecast struct {
	Days   []domain.WeatherDay `json:"forecast"`
	Source string              `json:"source"`
}

func (s *AnalysisService) WeatherForecast(ctx context.Context, daysAhead int) (*WeatherForecast, error) {
	if daysAhead < 1 {
		return nil, fmt.Errorf("days must be >= 1: %w", domain.ErrInvalidInput)
	}

	days, source := s.weather.Forecast(ctx, daysAhead)

	return &WeatherForecast{Days: days, Source: source}, nil
}

// CurrentStatus is the latest sales record plus trailing statistics and the
// current inventory position for one product.
type CurrentStatus struct {
	Product     string                   `json:"product"`
	Date        time.Time                `json:"date"`
	ItemsSold   int                      `json:"items_sold"`
	ItemsWasted int                      `json:"items_wasted"`
	IsWeekend   bool                     `json:"is_weekend"`
	IsHoliday   bool                     `json:"is_holiday"`
	Stats       domain.SalesStats        `json:"statistics"`
	Inventory   *domain.InventorySummary `json:"inventory,omitempty"`
}

func (s *AnalysisService) CurrentStatus(ctx context.Context, product string) (*CurrentStatus, error) {
	latest, err := s.history.Latest(ctx, product)
	if err != nil {
		return nil, err
	}

	recent, err := s.history.GetRecent(ctx, product, statsWindowDays)
	if err != nil {
		return nil, err
	}

	status := &CurrentStatus{
		Product:     product,
		Date:        latest.Date,
		ItemsSold:   latest.QuantitySold,
		ItemsWasted: latest.QuantityWasted,
		IsWeekend:   latest.IsWeekend,
		IsHoliday:   latest.IsHoliday,
		Stats:       analytics.TrailingStats(recent, statsWindowDays),
	}

	if summary, err := s.inventorySummary(ctx, product); err == nil {
		status.Inventory = summary
	} else if !isMissing(err) {
		return nil, err
	}

	return status, nil
}

func (s *AnalysisService) Trend(ctx context.Context, product string, days int) (domain.SalesTrend, error) {
	if days < 1 {
		days = trendWindowDays
	}

	recent, err := s.history.GetRecent(ctx, product, days)
	if err != nil {
		return domain.SalesTrend{}, err
	}

	return analytics.Trend(recent, days), nil
}

// WeatherImpact correlates the product's full history with weather.
func (s *AnalysisService) WeatherImpact(ctx context.Context, product string) (domain.WeatherImpact, error) {
	records, err := s.history.GetRecent(ctx, product, 0)
	if err != nil {
		return domain.WeatherImpact{}, err
	}

	return analytics.WeatherCorrelation(records), nil
}

// DiscountAnalysis runs the performance-vs-expiry pricing policy: today's
// sales against the trailing average, and hours to the nearest batch expiry.
func (s *AnalysisService) DiscountAnalysis(ctx context.Context, product string) (pricing.PerformanceExpiryResult, error) {
	latest, err := s.history.Latest(ctx, product)
	if err != nil {
		return pricing.PerformanceExpiryResult{}, err
	}

	recent, err := s.history.GetRecent(ctx, product, statsWindowDays)
	if err != nil {
		return pricing.PerformanceExpiryResult{}, err
	}
	stats := analytics.TrailingStats(recent, statsWindowDays)

	hoursToExpiry, err := s.hoursToExpiry(ctx, product)
	if err != nil {
		return pricing.PerformanceExpiryResult{}, err
	}

	return pricing.PerformanceExpiry(float64(latest.QuantitySold), stats.AvgDailySold, hoursToExpiry), nil
}

// WasteDiscount runs the waste-rate pricing policy: trailing waste rate plus
// performance against the 1-day forecast.
func (s *AnalysisService) WasteDiscount(ctx context.Context, product string) (domain.DiscountRecommendation, error) {
	stats, performancePct, err := s.wasteAndPerformance(ctx, product)
	if err != nil {
		return domain.DiscountRecommendation{}, err
	}

	needs, urgency, pct := pricing.WasteRateExpiry(stats.WasteRatePct, performancePct)

	return domain.DiscountRecommendation{
		Product:        product,
		NeedsDiscount:  needs,
		Urgency:        urgency,
		DiscountPct:    pct,
		WasteRatePct:   stats.WasteRatePct,
		PerformancePct: round1(performancePct),
		Reasoning:      pricing.DiscountReasoning(stats.WasteRatePct, performancePct, urgency),
		Source:         reasoning.SourceFallback,
	}, nil
}

// InventoryPricing is the reasoning-backed pricing analysis: inventory
// position and waste statistics go to the reasoning engine, with the
// expiry-tier rules as fallback.
type InventoryPricing struct {
	domain.DiscountRecommendation
	QuantityOnHand  int `json:"quantity_on_hand"`
	DaysUntilExpiry int `json:"days_until_expiry"`
}

func (s *AnalysisService) InventoryPricing(ctx context.Context, product string) (*InventoryPricing, error) {
	summary, err := s.inventorySummary(ctx, product)
	if err != nil {
		return nil, err
	}

	batches, err := s.snapshots.CurrentBatches(ctx, product)
	if err != nil {
		return nil, err
	}

	daysUntilExpiry, ok := inventory.NearestExpiry(batches, product, s.now())
	if !ok {
		return nil, fmt.Errorf("no inventory batches for %s: %w", product, domain.ErrNotFound)
	}

	stats, performancePct, err := s.wasteAndPerformance(ctx, product)
	if err != nil {
		return nil, err
	}

	rec := reasoning.DecideDiscount(ctx, s.engine, reasoning.DiscountInput{
		Product:         product,
		DaysUntilExpiry: daysUntilExpiry,
		CurrentQuantity: summary.TotalQuantity,
		WasteRatePct:    stats.WasteRatePct,
		PerformancePct:  performancePct,
		AvgDailySales:   stats.AvgDailySold,
	})

	return &InventoryPricing{
		DiscountRecommendation: rec,
		QuantityOnHand:         summary.TotalQuantity,
		DaysUntilExpiry:        daysUntilExpiry,
	}, nil
}

// OrderRecommendation combines the demand forecast with the inventory
// position to size the next order.
func (s *AnalysisService) OrderRecommendation(ctx context.Context, product string, daysAhead int) (domain.OrderRecommendation, error) {
	fc, err := s.Forecast(ctx, product, daysAhead)
	if err != nil {
		return domain.OrderRecommendation{}, err
	}

	demand := make([]float64, len(fc.Predictions))
	for i, p := range fc.Predictions {
		demand[i] = p.PredictedDemand
	}

	summary, err := s.inventorySummary(ctx, product)
	if err != nil && !isMissing(err) {
		return domain.OrderRecommendation{}, err
	}

	return s.recommender.Recommend(product, demand, daysAhead, summary), nil
}

// SupplierOrder is the reasoning-backed weekly supplier order recommendation.
type SupplierOrder struct {
	Product             string                 `json:"product"`
	ForecastDays        int                    `json:"forecast_days"`
	DailyForecast       []domain.ForecastPoint `json:"daily_forecast"`
	TotalPredicted      float64                `json:"total_predicted_demand"`
	HistoricalWeeklyAvg float64                `json:"historical_weekly_avg"`
	ChangePct           float64                `json:"change_percentage"`
	RecommendedOrder    float64                `json:"recommended_order_quantity"`
	Reasoning           string                 `json:"reasoning"`
	WeatherImpact       string                 `json:"weather_impact"`
	Source              string                 `json:"source"`
}

func (s *AnalysisService) SupplierOrder(ctx context.Context, product string, daysAhead int) (*SupplierOrder, error) {
	if daysAhead < 1 {
		daysAhead = 7
	}

	fc, err := s.Forecast(ctx, product, daysAhead)
	if err != nil {
		return nil, err
	}

	trend, err := s.Trend(ctx, product, trendWindowDays)
	if err != nil {
		return nil, err
	}
	weeklyAvg := trend.Stats.AvgDailySold * 7

	changePct := 0.0
	if weeklyAvg > 0 {
		changePct = (fc.TotalPredicted - weeklyAvg) / weeklyAvg * 100
	}

	impact, err := s.WeatherImpact(ctx, product)
	if err != nil {
		return nil, err
	}

	qty, reason, source := reasoning.DecideSupplierOrder(ctx, s.engine, reasoning.SupplierOrderInput{
		Product:             product,
		ForecastTotal:       fc.TotalPredicted,
		HistoricalWeeklyAvg: weeklyAvg,
		ChangePct:           changePct,
		WeatherImpact:       impact.Interpretation,
	})

	return &SupplierOrder{
		Product:             product,
		ForecastDays:        daysAhead,
		DailyForecast:       fc.Predictions,
		TotalPredicted:      fc.TotalPredicted,
		HistoricalWeeklyAvg: round1(weeklyAvg),
		ChangePct:           round1(changePct),
		RecommendedOrder:    qty,
		Reasoning:           reason,
		WeatherImpact:       impact.Interpretation,
		Source:              source,
	}, nil
}

// InventoryReport aggregates the full batch snapshot across products.
func (s *AnalysisService) InventoryReport(ctx context.Context) (*inventory.Report, error) {
	batches, err := s.snapshots.CurrentBatches(ctx, "")
	if err != nil {
		return nil, err
	}

	return inventory.BuildReport(batches, s.now()), nil
}

func (s *AnalysisService) inventorySummary(ctx context.Context, product string) (*domain.InventorySummary, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("no inventory source configured: %w", domain.ErrNotFound)
	}

	batches, err := s.snapshots.CurrentBatches(ctx, product)
	if err != nil {
		return nil, err
	}

	summary := inventory.SummarizeProduct(batches, product, s.now())
	if summary == nil {
		return nil, fmt.Errorf("no inventory batches for %s: %w", product, domain.ErrNotFound)
	}

	return summary, nil
}

func (s *AnalysisService) hoursToExpiry(ctx context.Context, product string) (float64, error) {
	batches, err := s.snapshots.CurrentBatches(ctx, product)
	if err != nil {
		return 0, err
	}

	days, ok := inventory.NearestExpiry(batches, product, s.now())
	if !ok {
		log.Debug().Str("product", product).Msg("no batches, treating expiry as far out")
		return 24 * 365, nil
	}

	return float64(days) * 24, nil
}

// wasteAndPerformance computes trailing waste stats and today's performance
// against the 1-day forecast as a percentage (100 = on forecast). When the
// forecast is unavailable performance defaults to 100.
func (s *AnalysisService) wasteAndPerformance(ctx context.Context, product string) (domain.SalesStats, float64, error) {
	recent, err := s.history.GetRecent(ctx, product, statsWindowDays)
	if err != nil {
		return domain.SalesStats{}, 0, err
	}
	stats := analytics.TrailingStats(recent, statsWindowDays)

	performancePct := 100.0
	if fc, err := s.Forecast(ctx, product, 1); err == nil && len(fc.Predictions) > 0 {
		predicted := fc.Predictions[0].PredictedDemand
		if predicted > 0 {
			actual := float64(recent[len(recent)-1].QuantitySold)
			performancePct = actual / predicted * 100
		}
	} else if err != nil {
		log.Debug().Err(err).Str("product", product).Msg("1-day forecast unavailable for performance check")
	}

	return stats, performancePct, nil
}

func isMissing(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

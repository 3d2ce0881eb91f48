package analytics

import (
	"testing"
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

func record(day, sold, wasted int, temp, precip float64) domain.SalesRecord {
	return domain.SalesRecord{
		Product:        "Milk",
		Date:           time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		QuantitySold:   sold,
		QuantityWasted: wasted,
		Temperature:    temp,
		Precipitation:  precip,
	}
}

func TestTrailingStats(t *testing.T) {
	records := []domain.SalesRecord{
		record(1, 10, 2, 60, 0),
		record(2, 20, 0, 65, 0),
		record(3, 12, 4, 70, 0),
	}

	stats := TrailingStats(records, 7)

	if stats.TotalSold != 42 {
		t.Errorf("total sold: got %d, want 42", stats.TotalSold)
	}
	if stats.TotalWasted != 6 {
		t.Errorf("total wasted: got %d, want 6", stats.TotalWasted)
	}
	if stats.AvgDailySold != 14 {
		t.Errorf("avg sold: got %v, want 14", stats.AvgDailySold)
	}
	// 6 / 48 * 100 = 12.5
	if stats.WasteRatePct != 12.5 {
		t.Errorf("waste rate: got %v, want 12.5", stats.WasteRatePct)
	}
}

func TestTrailingStatsWindowTruncates(t *testing.T) {
	records := []domain.SalesRecord{
		record(1, 100, 0, 60, 0), // outside the 2-day window
		record(2, 10, 0, 60, 0),
		record(3, 20, 0, 60, 0),
	}

	stats := TrailingStats(records, 2)

	if stats.TotalSold != 30 {
		t.Errorf("total sold: got %d, want 30", stats.TotalSold)
	}
}

func TestTrailingStatsZeroThroughput(t *testing.T) {
	stats := TrailingStats([]domain.SalesRecord{record(1, 0, 0, 60, 0)}, 7)

	if stats.WasteRatePct != 0 {
		t.Errorf("waste rate on zero throughput: got %v, want 0", stats.WasteRatePct)
	}
}

func TestTrailingStatsEmpty(t *testing.T) {
	stats := TrailingStats(nil, 7)

	if stats.Product != "" || stats.TotalSold != 0 {
		t.Errorf("unexpected stats for empty input: %+v", stats)
	}
}

func TestTrendRows(t *testing.T) {
	records := []domain.SalesRecord{
		record(3, 12, 4, 70, 0),
		record(1, 10, 2, 60, 0), // out of order on purpose
		record(2, 20, 0, 65, 0),
	}

	trend := Trend(records, 30)

	if trend.Product != "Milk" {
		t.Errorf("product: got %q", trend.Product)
	}
	if len(trend.TrendData) != 3 {
		t.Fatalf("rows: got %d, want 3", len(trend.TrendData))
	}
	if !trend.TrendData[0].Date.Before(trend.TrendData[1].Date) {
		t.Error("rows not sorted ascending")
	}
	if trend.TrendData[0].DayOfWeek != "Saturday" {
		t.Errorf("day of week: got %q, want Saturday", trend.TrendData[0].DayOfWeek)
	}
	if trend.Stats.TotalSold != 42 {
		t.Errorf("stats sold: got %d, want 42", trend.Stats.TotalSold)
	}
}

func TestWeatherCorrelationPositive(t *testing.T) {
	// Sales rise perfectly with temperature and there is no rain.
	records := []domain.SalesRecord{
		record(1, 10, 0, 50, 0),
		record(2, 20, 0, 60, 0),
		record(3, 30, 0, 70, 0),
		record(4, 40, 0, 80, 0),
	}

	impact := WeatherCorrelation(records)

	if impact.TemperatureCorrelation != 1 {
		t.Errorf("correlation: got %v, want 1", impact.TemperatureCorrelation)
	}
	if impact.AvgSalesClearDays != 25 {
		t.Errorf("clear-day avg: got %v, want 25", impact.AvgSalesClearDays)
	}
	if impact.Interpretation != "Sales increase 100% with warmer weather. Rain has minimal impact" {
		t.Errorf("unexpected interpretation: %q", impact.Interpretation)
	}
}

func TestWeatherCorrelationRainReducesSales(t *testing.T) {
	records := []domain.SalesRecord{
		record(1, 20, 0, 65, 0),
		record(2, 20, 0, 65, 0.05), // below the rainy threshold
		record(3, 10, 0, 65, 0.5),
		record(4, 10, 0, 65, 0.8),
	}

	impact := WeatherCorrelation(records)

	if impact.AvgSalesRainyDays != 10 || impact.AvgSalesClearDays != 20 {
		t.Fatalf("rainy/clear avgs: got %v/%v, want 10/20", impact.AvgSalesRainyDays, impact.AvgSalesClearDays)
	}
	if impact.RainImpactPct != -50 {
		t.Errorf("rain impact: got %v, want -50", impact.RainImpactPct)
	}
	if impact.Interpretation != "Temperature has minimal impact on sales. Rain reduces sales by ~50%" {
		t.Errorf("unexpected interpretation: %q", impact.Interpretation)
	}
}

func TestWeatherCorrelationEmpty(t *testing.T) {
	impact := WeatherCorrelation(nil)

	if impact.Interpretation != "No sales history available" {
		t.Errorf("unexpected interpretation: %q", impact.Interpretation)
	}
}

// Package analytics computes rolling sales/waste statistics and weather
// correlation over a product's history. Everything here is a pure function of
// the records passed in.
package analytics

import (
	"math"
	"sort"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// TrailingStats computes statistics over the last `days` records for a
// product, sorted by date ascending and tail-truncated. Waste rate is 0 when
// nothing was sold or wasted in the window.
func TrailingStats(records []domain.SalesRecord, days int) domain.SalesStats {
	window := tail(records, days)

	stats := domain.SalesStats{PeriodDays: days}
	if len(window) == 0 {
		return stats
	}
	stats.Product = window[0].Product

	for _, r := range window {
		stats.TotalSold += r.QuantitySold
		stats.TotalWasted += r.QuantityWasted
	}

	n := float64(len(window))
	stats.AvgDailySold = round1(float64(stats.TotalSold) / n)
	stats.AvgDailyWaste = round1(float64(stats.TotalWasted) / n)

	throughput := stats.TotalSold + stats.TotalWasted
	if throughput > 0 {
		stats.WasteRatePct = round1(float64(stats.TotalWasted) / float64(throughput) * 100)
	}

	return stats
}

// Trend returns the per-day rows for the trailing window plus its statistics.
func Trend(records []domain.SalesRecord, days int) domain.SalesTrend {
	window := tail(records, days)

	trend := domain.SalesTrend{Stats: TrailingStats(records, days)}
	trend.Product = trend.Stats.Product
	for _, r := range window {
		trend.TrendData = append(trend.TrendData, domain.TrendPoint{
			Date:       r.Date,
			DayOfWeek:  r.Date.Weekday().String(),
			ItemsSold:  r.QuantitySold,
			ItemsWaste: r.QuantityWasted,
		})
	}
	return trend
}

// tail sorts ascending by date and keeps the last `days` records.
func tail(records []domain.SalesRecord, days int) []domain.SalesRecord {
	sorted := append([]domain.SalesRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	if days > 0 && len(sorted) > days {
		sorted = sorted[len(sorted)-days:]
	}
	return sorted
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

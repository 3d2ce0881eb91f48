package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

const (
	// rainyDayThreshold separates rainy from clear days, in inches.
	rainyDayThreshold = 0.1
	// significantCorrelation is the |r| above which temperature is called out.
	significantCorrelation = 0.3
	// significantRainImpact is the percentage beyond which rain is called out.
	significantRainImpact = 10.0
)

// WeatherCorrelation computes the Pearson correlation between temperature and
// units sold, and the percentage difference in mean sales between rainy and
// clear days. Deterministic and stateless given the history.
func WeatherCorrelation(records []domain.SalesRecord) domain.WeatherImpact {
	impact := domain.WeatherImpact{}
	if len(records) == 0 {
		impact.Interpretation = "No sales history available"
		return impact
	}
	impact.Product = records[0].Product

	temps := make([]float64, len(records))
	sold := make([]float64, len(records))
	var rainSum, rainCount, clearSum, clearCount float64
	for i, r := range records {
		temps[i] = r.Temperature
		sold[i] = float64(r.QuantitySold)
		if r.Precipitation > rainyDayThreshold {
			rainSum += sold[i]
			rainCount++
		} else {
			clearSum += sold[i]
			clearCount++
		}
	}

	impact.TemperatureCorrelation = round3(pearson(temps, sold))
	if rainCount > 0 {
		impact.AvgSalesRainyDays = round1(rainSum / rainCount)
	}
	if clearCount > 0 {
		impact.AvgSalesClearDays = round1(clearSum / clearCount)
	}
	if impact.AvgSalesClearDays > 0 {
		impact.RainImpactPct = round1((impact.AvgSalesRainyDays - impact.AvgSalesClearDays) /
			impact.AvgSalesClearDays * 100)
	}
	impact.Interpretation = interpretWeatherImpact(impact.TemperatureCorrelation, impact.RainImpactPct)

	return impact
}

func interpretWeatherImpact(tempCorr, rainImpact float64) string {
	var parts []string

	if math.Abs(tempCorr) > significantCorrelation {
		if tempCorr > 0 {
			parts = append(parts, fmt.Sprintf("Sales increase %.0f%% with warmer weather", math.Abs(tempCorr)*100))
		} else {
			parts = append(parts, fmt.Sprintf("Sales decrease %.0f%% with warmer weather", math.Abs(tempCorr)*100))
		}
	} else {
		parts = append(parts, "Temperature has minimal impact on sales")
	}

	switch {
	case rainImpact < -significantRainImpact:
		parts = append(parts, fmt.Sprintf("Rain reduces sales by ~%.0f%%", math.Abs(rainImpact)))
	case rainImpact > significantRainImpact:
		parts = append(parts, fmt.Sprintf("Rain increases sales by ~%.0f%%", rainImpact))
	default:
		parts = append(parts, "Rain has minimal impact")
	}

	return strings.Join(parts, ". ")
}

// pearson returns the sample correlation coefficient, or 0 when either series
// has zero variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 || len(xs) != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

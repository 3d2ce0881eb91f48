// Package pricing implements the discount decision policies. Two policies
// coexist deliberately: PerformanceExpiry (actual-vs-forecast ratio plus hours
// to expiry) and WasteRateExpiry (trailing waste rate plus performance
// percentage). They disagree on boundary cases and must not be unified; see
// DESIGN.md.
package pricing

import (
	"fmt"
	"math"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Action is the outcome of the PerformanceExpiry policy.
type Action string

const (
	ActionDiscount Action = "discount"
	ActionMonitor  Action = "monitor"
	ActionNoAction Action = "no_action"
)

const (
	// MaxDiscountPct caps every recommended discount.
	MaxDiscountPct = 50.0

	underperformThreshold = 0.6
	onTrackThreshold      = 0.9
	expiryWindowHours     = 48.0
)

// PerformanceExpiryResult is the full PerformanceExpiry decision, including
// the inputs it was computed from.
type PerformanceExpiryResult struct {
	ActualSales      float64 `json:"actual_sales"`
	PredictedSales   float64 `json:"predicted_sales"`
	PerformanceRatio float64 `json:"performance_ratio"`
	HoursToExpiry    float64 `json:"hours_to_expiry"`
	Recommendation   Action  `json:"recommendation"`
	DiscountPct      float64 `json:"recommended_discount"`
	Reasoning        string  `json:"reasoning"`
}

// PerformanceExpiry decides a discount from today's sales performance against
// forecast and the hours remaining before the nearest batch expires. A zero or
// negative predicted value makes the ratio undefined; performance is then
// treated as 1.0.
func PerformanceExpiry(actualSales, predictedSales, hoursToExpiry float64) PerformanceExpiryResult {
	performance := 1.0
	if predictedSales > 0 {
		performance = actualSales / predictedSales
	}

	res := PerformanceExpiryResult{
		ActualSales:      actualSales,
		PredictedSales:   predictedSales,
		PerformanceRatio: performance,
		HoursToExpiry:    hoursToExpiry,
	}

	switch {
	case performance < underperformThreshold && hoursToExpiry < expiryWindowHours:
		res.Recommendation = ActionDiscount
		res.DiscountPct = optimalDiscount(performance, hoursToExpiry)
		res.Reasoning = fmt.Sprintf("Underperforming by %.0f%% with %.0fh to expiry",
			(1-performance)*100, hoursToExpiry)
	case performance > onTrackThreshold:
		res.Recommendation = ActionNoAction
		res.Reasoning = "On track - no action needed"
	default:
		res.Recommendation = ActionMonitor
		res.Reasoning = "Monitor closely"
	}

	return res
}

// optimalDiscount combines an underperformance component with an expiry
// urgency component, rounded and clamped to [0, MaxDiscountPct].
func optimalDiscount(performance, hoursToExpiry float64) float64 {
	base := (1 - performance) * 50
	urgency := math.Max(0, (expiryWindowHours-hoursToExpiry)/expiryWindowHours) * 20

	return ClampDiscount(math.Round(base + urgency))
}

// WasteRateExpiry decides a discount from the trailing 7-day waste rate and
// today's performance vs the 1-day-ahead forecast (expressed as a percentage,
// 100 = on forecast).
func WasteRateExpiry(wasteRatePct, performancePct float64) (bool, domain.Urgency, float64) {
	needsDiscount := wasteRatePct > 15 || performancePct < 70
	if !needsDiscount {
		return false, domain.UrgencyNone, 0
	}

	switch {
	case wasteRatePct > 25:
		return true, domain.UrgencyHigh, ClampDiscount(30)
	case wasteRatePct > 15:
		return true, domain.UrgencyMedium, ClampDiscount(20)
	default:
		return true, domain.UrgencyLow, ClampDiscount(15)
	}
}

// ExpiryTierFallback tiers a discount purely by days until the nearest batch
// expires. This is the deterministic fallback used whenever the external
// reasoning service is unavailable or returns a malformed result.
func ExpiryTierFallback(daysUntilExpiry int) (bool, domain.Urgency, float64, string) {
	switch {
	case daysUntilExpiry <= 2:
		return true, domain.UrgencyHigh, ClampDiscount(30), "Expires in 2 days - urgent discount needed"
	case daysUntilExpiry <= 4:
		return true, domain.UrgencyMedium, ClampDiscount(20), "Approaching expiration - moderate discount recommended"
	default:
		return false, domain.UrgencyNone, 0, "Sufficient time before expiration"
	}
}

// ClampDiscount bounds a discount percentage to [0, MaxDiscountPct].
func ClampDiscount(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > MaxDiscountPct {
		return MaxDiscountPct
	}
	return pct
}

// DiscountReasoning builds the human-readable reasoning string for the
// WasteRateExpiry policy.
func DiscountReasoning(wasteRatePct, performancePct float64, urgency domain.Urgency) string {
	if urgency == domain.UrgencyNone {
		return "Product is performing well with low waste"
	}

	var reasons []string
	if wasteRatePct > 15 {
		reasons = append(reasons, fmt.Sprintf("High waste rate (%.0f%%)", wasteRatePct))
	}
	if performancePct < 70 {
		reasons = append(reasons, fmt.Sprintf("Underperforming vs forecast (%.0f%%)", performancePct))
	}

	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += " and "
		}
		out += r
	}
	return out
}

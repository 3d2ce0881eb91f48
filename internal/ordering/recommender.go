// Package ordering turns a demand forecast and an expiry-bucketed inventory
// snapshot into a reorder quantity with confidence and priority tiers.
package ordering

import (
	"math"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Config holds the tunable constants of the recommender. The sell-through
// window and waste-reduction factor come from the original ruleset and have no
// documented derivation; they are kept overridable rather than inlined.
type Config struct {
	// SellThroughDays is how many days the store assumes it has to sell
	// units that are expiring soon.
	SellThroughDays float64
	// WasteReductionFactor scales the order down when waste risk exceeds
	// twice the average daily demand.
	WasteReductionFactor float64
	// InfiniteInventoryDays is the sentinel for days-of-inventory when
	// average daily demand is zero.
	InfiniteInventoryDays float64
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		SellThroughDays:       5,
		WasteReductionFactor:  0.7,
		InfiniteInventoryDays: 999,
	}
}

// Recommender computes order recommendations. It is stateless beyond its
// configuration; Recommend is a pure function of its inputs.
type Recommender struct {
	cfg Config
}

func NewRecommender(cfg Config) *Recommender {
	if cfg.SellThroughDays <= 0 {
		cfg.SellThroughDays = 5
	}
	if cfg.WasteReductionFactor <= 0 || cfg.WasteReductionFactor > 1 {
		cfg.WasteReductionFactor = 0.7
	}
	if cfg.InfiniteInventoryDays <= 0 {
		cfg.InfiniteInventoryDays = 999
	}
	return &Recommender{cfg: cfg}
}

// Recommend computes the reorder quantity for a product given its predicted
// daily demand and current inventory summary. A summary with no data for the
// product (nil) yields a zero order tagged low confidence rather than an
// error.
func (r *Recommender) Recommend(product string, predictedDemand []float64, daysAhead int, summary *domain.InventorySummary) domain.OrderRecommendation {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	if summary == nil {
		return domain.OrderRecommendation{
			Product:    product,
			Confidence: domain.ConfidenceLow,
			Priority:   domain.PriorityLow,
			Reason:     "No current inventory data",
		}
	}

	totalCurrent := float64(summary.TotalQuantity)
	expiringSoon := float64(summary.ExpiringSoon)

	if daysAhead > len(predictedDemand) {
		daysAhead = len(predictedDemand)
	}
	totalDemand := 0.0
	for _, d := range predictedDemand[:daysAhead] {
		totalDemand += d
	}
	avgDailyDemand := 0.0
	if daysAhead > 0 {
		avgDailyDemand = totalDemand / float64(daysAhead)
	}

	daysOfInventory := r.cfg.InfiniteInventoryDays
	if avgDailyDemand > 0 {
		daysOfInventory = totalCurrent / avgDailyDemand
	}

	// Units expiring soon that demand cannot plausibly absorb within the
	// sell-through window.
	wasteRisk := math.Max(0, expiringSoon-avgDailyDemand*r.cfg.SellThroughDays)

	var (
		order      float64
		confidence domain.Confidence
		reason     string
	)

	switch {
	case daysOfInventory < 3:
		order = math.Max(0, totalDemand-totalCurrent+avgDailyDemand*2)
		confidence = domain.ConfidenceHigh
		reason = "Critical stock level - immediate order needed"
	case daysOfInventory < 7:
		order = math.Max(0, totalDemand-totalCurrent+avgDailyDemand*3)
		confidence = domain.ConfidenceHigh
		reason = "Low stock level - order recommended"
	case wasteRisk > avgDailyDemand:
		order = math.Max(0, totalDemand-totalCurrent)
		confidence = domain.ConfidenceMedium
		reason = "High waste risk - order only if needed"
	case daysOfInventory > 14:
		order = 0
		confidence = domain.ConfidenceHigh
		reason = "Overstocked - no order needed"
	default:
		order = math.Max(0, totalDemand-totalCurrent+avgDailyDemand*2)
		confidence = domain.ConfidenceMedium
		reason = "Normal stock level - standard order"
	}

	if wasteRisk > avgDailyDemand*2 {
		order *= r.cfg.WasteReductionFactor
		reason += " (reduced due to waste risk)"
	}

	return domain.OrderRecommendation{
		Product:          product,
		CurrentInventory: summary.TotalQuantity,
		ExpiringSoon:     summary.ExpiringSoon,
		PredictedDemand:  totalDemand,
		DaysOfInventory:  math.Round(daysOfInventory*10) / 10,
		WasteRisk:        math.Round(wasteRisk*10) / 10,
		RecommendedOrder: math.Round(order),
		Confidence:       confidence,
		Priority:         orderPriority(daysOfInventory, wasteRisk),
		Reason:           reason,
	}
}

// orderPriority is independent of the confidence tier.
func orderPriority(daysOfInventory, wasteRisk float64) domain.OrderPriority {
	switch {
	case daysOfInventory < 3:
		return domain.PriorityUrgent
	case daysOfInventory < 7 || wasteRisk > 10:
		return domain.PriorityHigh
	case daysOfInventory < 14:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

package inventory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// WasteAction is a suggested intervention on at-risk stock.
type WasteAction struct {
	Product    string               `json:"product"`
	Action     string               `json:"action"` // PROMOTE or DISCARD
	Quantity   int                  `json:"quantity"`
	Priority   domain.OrderPriority `json:"priority"`
	Suggestion string               `json:"suggestion"`
}

// Report is the full inventory report across all products in a snapshot.
type Report struct {
	Summary struct {
		TotalProducts     int     `json:"total_products"`
		TotalInventory    int     `json:"total_inventory"`
		TotalExpiringSoon int     `json:"total_expiring_soon"`
		TotalExpired      int     `json:"total_expired"`
		WastePercentage   float64 `json:"waste_percentage"`
	} `json:"summary"`
	Products        map[string]*domain.InventorySummary `json:"products"`
	Recommendations []WasteAction                       `json:"recommendations"`
	GeneratedAt     time.Time                           `json:"generated_at"`
}

// WasteRecommendations lists promote/discard actions for products with
// expiring or expired stock, most urgent first.
func WasteRecommendations(summaries map[string]*domain.InventorySummary) []WasteAction {
	products := make([]string, 0, len(summaries))
	for p := range summaries {
		products = append(products, p)
	}
	sort.Strings(products)

	var actions []WasteAction
	for _, product := range products {
		s := summaries[product]
		if s.ExpiringSoon > 0 {
			actions = append(actions, WasteAction{
				Product:  product,
				Action:   "PROMOTE",
				Quantity: s.ExpiringSoon,
				Priority: domain.PriorityHigh,
				Suggestion: fmt.Sprintf("Promote %s - %d units expiring within %d days",
					product, s.ExpiringSoon, soonDays),
			})
		}
		if s.Expired > 0 {
			actions = append(actions, WasteAction{
				Product:  product,
				Action:   "DISCARD",
				Quantity: s.Expired,
				Priority: domain.PriorityUrgent,
				Suggestion: fmt.Sprintf("Discard %s - %d units already expired",
					product, s.Expired),
			})
		}
	}
	return actions
}

// BuildReport assembles the report for a batch snapshot.
func BuildReport(batches []domain.InventoryBatch, now time.Time) *Report {
	summaries := Summarize(batches, now)

	r := &Report{
		Products:        summaries,
		Recommendations: WasteRecommendations(summaries),
		GeneratedAt:     now,
	}
	for _, s := range summaries {
		r.Summary.TotalProducts++
		r.Summary.TotalInventory += s.TotalQuantity
		r.Summary.TotalExpiringSoon += s.ExpiringSoon
		r.Summary.TotalExpired += s.Expired
	}
	if r.Summary.TotalInventory > 0 {
		pct := float64(r.Summary.TotalExpired) / float64(r.Summary.TotalInventory) * 100
		r.Summary.WastePercentage = math.Round(pct*100) / 100
	}
	return r
}

package ordering

import (
	"strings"
	"testing"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

func steadyDemand(perDay float64, days int) []float64 {
	out := make([]float64, days)
	for i := range out {
		out[i] = perDay
	}
	return out
}

func TestRecommendCriticalStock(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	rec := r.Recommend("Milk", steadyDemand(5, 7), 7, &domain.InventorySummary{
		Product:       "Milk",
		TotalQuantity: 10,
	})

	// 10 units / 5 per day = 2 days of inventory.
	if rec.DaysOfInventory != 2 {
		t.Fatalf("days of inventory: got %v, want 2", rec.DaysOfInventory)
	}
	// demand 35 - current 10 + 2-day buffer 10 = 35
	if rec.RecommendedOrder != 35 {
		t.Fatalf("recommended order: got %v, want 35", rec.RecommendedOrder)
	}
	if rec.Priority != domain.PriorityUrgent {
		t.Fatalf("priority: got %v, want URGENT", rec.Priority)
	}
	if rec.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence: got %v, want high", rec.Confidence)
	}
}

func TestRecommendOverstocked(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	rec := r.Recommend("Milk", steadyDemand(5, 7), 7, &domain.InventorySummary{
		Product:       "Milk",
		TotalQuantity: 100,
	})

	if rec.RecommendedOrder != 0 {
		t.Fatalf("recommended order: got %v, want 0", rec.RecommendedOrder)
	}
	if rec.Priority != domain.PriorityLow {
		t.Fatalf("priority: got %v, want LOW", rec.Priority)
	}
	if rec.Reason != "Overstocked - no order needed" {
		t.Fatalf("unexpected reason: %q", rec.Reason)
	}
}

func TestRecommendWasteRiskReducesOrder(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	// avg demand 5/day, sell-through window 5 days: anything over 25 units
	// expiring soon is at risk. 40 expiring soon puts risk at 15, which is
	// more than twice the daily demand, so the order is scaled down.
	rec := r.Recommend("Milk", steadyDemand(5, 7), 7, &domain.InventorySummary{
		Product:       "Milk",
		TotalQuantity: 50,
		ExpiringSoon:  40,
	})

	if rec.WasteRisk != 15 {
		t.Fatalf("waste risk: got %v, want 15", rec.WasteRisk)
	}
	if rec.Priority != domain.PriorityHigh {
		t.Fatalf("priority: got %v, want HIGH", rec.Priority)
	}
	if !strings.HasSuffix(rec.Reason, "(reduced due to waste risk)") {
		t.Fatalf("reason missing waste risk note: %q", rec.Reason)
	}
}

func TestRecommendNoInventoryData(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	rec := r.Recommend("Milk", steadyDemand(5, 7), 7, nil)

	if rec.RecommendedOrder != 0 {
		t.Fatalf("recommended order: got %v, want 0", rec.RecommendedOrder)
	}
	if rec.Confidence != domain.ConfidenceLow {
		t.Fatalf("confidence: got %v, want low", rec.Confidence)
	}
	if rec.Reason != "No current inventory data" {
		t.Fatalf("unexpected reason: %q", rec.Reason)
	}
}

func TestRecommendZeroDemand(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	rec := r.Recommend("Milk", steadyDemand(0, 7), 7, &domain.InventorySummary{
		Product:       "Milk",
		TotalQuantity: 10,
	})

	if rec.DaysOfInventory != 999 {
		t.Fatalf("days of inventory: got %v, want sentinel 999", rec.DaysOfInventory)
	}
	if rec.RecommendedOrder != 0 {
		t.Fatalf("recommended order: got %v, want 0", rec.RecommendedOrder)
	}
}

func TestRecommendOrderNeverNegative(t *testing.T) {
	r := NewRecommender(DefaultConfig())

	demands := [][]float64{
		steadyDemand(0.5, 7),
		steadyDemand(3, 7),
		steadyDemand(12, 7),
	}
	stocks := []int{0, 5, 40, 400}

	for _, demand := range demands {
		for _, stock := range stocks {
			rec := r.Recommend("Milk", demand, 7, &domain.InventorySummary{
				Product:       "Milk",
				TotalQuantity: stock,
			})
			if rec.RecommendedOrder < 0 {
				t.Fatalf("negative order %v for demand %v stock %d", rec.RecommendedOrder, demand[0], stock)
			}
		}
	}
}

func TestRecommendStrictlyIncreasingInDemand(t *testing.T) {
	r := NewRecommender(DefaultConfig())
	// With empty shelves every unit of extra demand must grow the order.
	summary := &domain.InventorySummary{Product: "Milk", TotalQuantity: 0}

	low := r.Recommend("Milk", steadyDemand(4, 7), 7, summary)
	high := r.Recommend("Milk", steadyDemand(8, 7), 7, summary)

	if high.RecommendedOrder <= low.RecommendedOrder {
		t.Fatalf("order not strictly increasing with demand: %v -> %v", low.RecommendedOrder, high.RecommendedOrder)
	}
}

func TestNewRecommenderDefaultsInvalidConfig(t *testing.T) {
	r := NewRecommender(Config{SellThroughDays: -1, WasteReductionFactor: 2, InfiniteInventoryDays: 0})

	if r.cfg.SellThroughDays != 5 || r.cfg.WasteReductionFactor != 0.7 || r.cfg.InfiniteInventoryDays != 999 {
		t.Fatalf("invalid config not defaulted: %+v", r.cfg)
	}
}

package inventory

import (
	"testing"
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

var refDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func batch(product, id string, qty, daysToExpiry int) domain.InventoryBatch {
	return domain.InventoryBatch{
		Product:        product,
		BatchID:        id,
		DateAcquired:   refDate.AddDate(0, 0, -10),
		ExpirationDate: refDate.AddDate(0, 0, daysToExpiry),
		Quantity:       qty,
	}
}

func TestSummarizeBuckets(t *testing.T) {
	batches := []domain.InventoryBatch{
		batch("Milk", "B1", 5, -1),
		batch("Milk", "B2", 10, 3),
		batch("Milk", "B3", 20, 10),
		batch("Milk", "B4", 30, 20),
		batch("Bread", "B5", 8, 1),
	}

	summaries := Summarize(batches, refDate)

	milk := summaries["Milk"]
	if milk == nil {
		t.Fatal("missing Milk summary")
	}
	if milk.TotalQuantity != 65 {
		t.Errorf("total: got %d, want 65", milk.TotalQuantity)
	}
	if milk.Expired != 5 {
		t.Errorf("expired: got %d, want 5", milk.Expired)
	}
	if milk.ExpiringSoon != 10 {
		t.Errorf("expiring soon: got %d, want 10", milk.ExpiringSoon)
	}
	if milk.ExpiringWarning != 20 {
		t.Errorf("warning: got %d, want 20", milk.ExpiringWarning)
	}
	if milk.ExpiringGood != 30 {
		t.Errorf("good: got %d, want 30", milk.ExpiringGood)
	}
	if len(milk.Batches) != 4 {
		t.Errorf("batches: got %d, want 4", len(milk.Batches))
	}

	bread := summaries["Bread"]
	if bread == nil || bread.ExpiringSoon != 8 {
		t.Errorf("bread summary wrong: %+v", bread)
	}
}

func TestSummarizeBucketBoundaries(t *testing.T) {
	summaries := Summarize([]domain.InventoryBatch{
		batch("Milk", "B1", 1, 0),  // expires today: still sellable
		batch("Milk", "B2", 2, 5),  // last "soon" day
		batch("Milk", "B3", 4, 14), // last "warning" day
		batch("Milk", "B4", 8, 15),
	}, refDate)

	milk := summaries["Milk"]
	if milk.Expired != 0 {
		t.Errorf("expired: got %d, want 0", milk.Expired)
	}
	if milk.ExpiringSoon != 3 {
		t.Errorf("soon: got %d, want 3", milk.ExpiringSoon)
	}
	if milk.ExpiringWarning != 4 {
		t.Errorf("warning: got %d, want 4", milk.ExpiringWarning)
	}
	if milk.ExpiringGood != 8 {
		t.Errorf("good: got %d, want 8", milk.ExpiringGood)
	}
}

func TestSummarizeProductMissing(t *testing.T) {
	if s := SummarizeProduct(nil, "Milk", refDate); s != nil {
		t.Fatalf("expected nil summary, got %+v", s)
	}
}

func TestNearestExpiry(t *testing.T) {
	batches := []domain.InventoryBatch{
		batch("Milk", "B1", 5, 7),
		batch("Milk", "B2", 5, 2),
		batch("Bread", "B3", 5, 1),
	}

	days, ok := NearestExpiry(batches, "Milk", refDate)
	if !ok || days != 2 {
		t.Fatalf("got (%d, %v), want (2, true)", days, ok)
	}

	if _, ok := NearestExpiry(batches, "Eggs", refDate); ok {
		t.Fatal("expected no expiry for unknown product")
	}
}

func TestBuildReport(t *testing.T) {
	batches := []domain.InventoryBatch{
		batch("Milk", "B1", 10, -2),
		batch("Milk", "B2", 30, 20),
		batch("Bread", "B3", 10, 3),
	}

	report := BuildReport(batches, refDate)

	if report.Summary.TotalProducts != 2 {
		t.Errorf("products: got %d, want 2", report.Summary.TotalProducts)
	}
	if report.Summary.TotalInventory != 50 {
		t.Errorf("inventory: got %d, want 50", report.Summary.TotalInventory)
	}
	if report.Summary.WastePercentage != 20 {
		t.Errorf("waste pct: got %v, want 20", report.Summary.WastePercentage)
	}

	// Bread needs a PROMOTE, Milk a DISCARD, products in name order.
	if len(report.Recommendations) != 2 {
		t.Fatalf("recommendations: got %d, want 2", len(report.Recommendations))
	}
	if report.Recommendations[0].Product != "Bread" || report.Recommendations[0].Action != "PROMOTE" {
		t.Errorf("unexpected first action: %+v", report.Recommendations[0])
	}
	if report.Recommendations[1].Product != "Milk" || report.Recommendations[1].Action != "DISCARD" {
		t.Errorf("unexpected second action: %+v", report.Recommendations[1])
	}
	if report.Recommendations[1].Priority != domain.PriorityUrgent {
		t.Errorf("discard priority: got %v, want URGENT", report.Recommendations[1].Priority)
	}
}

func TestBuildReportEmptySnapshot(t *testing.T) {
	report := BuildReport(nil, refDate)

	if report.Summary.TotalInventory != 0 || report.Summary.WastePercentage != 0 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(report.Recommendations))
	}
}

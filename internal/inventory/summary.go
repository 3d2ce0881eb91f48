// Package inventory aggregates batch-level snapshots into expiry-bucketed
// summaries. Summaries are recomputed on every call from the supplied batch
// snapshot; nothing here is persisted.
package inventory

import (
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Expiry bucket boundaries, in days to expiry.
const (
	soonDays    = 5
	warningDays = 14
)

// Summarize buckets a snapshot of batches by product. The reference date
// decides how many days each batch has left; expired batches (negative days)
// are counted separately.
func Summarize(batches []domain.InventoryBatch, now time.Time) map[string]*domain.InventorySummary {
	summaries := make(map[string]*domain.InventorySummary)

	for _, b := range batches {
		s, ok := summaries[b.Product]
		if !ok {
			s = &domain.InventorySummary{Product: b.Product}
			summaries[b.Product] = s
		}

		daysToExp := daysUntil(now, b.ExpirationDate)
		s.TotalQuantity += b.Quantity
		s.Batches = append(s.Batches, domain.BatchStatus{
			BatchID:        b.BatchID,
			Quantity:       b.Quantity,
			DaysToExpiry:   daysToExp,
			ExpirationDate: b.ExpirationDate,
		})

		switch {
		case daysToExp < 0:
			s.Expired += b.Quantity
		case daysToExp <= soonDays:
			s.ExpiringSoon += b.Quantity
		case daysToExp <= warningDays:
			s.ExpiringWarning += b.Quantity
		default:
			s.ExpiringGood += b.Quantity
		}
	}

	return summaries
}

// SummarizeProduct returns the summary for one product, or nil when the
// snapshot has no batches for it.
func SummarizeProduct(batches []domain.InventoryBatch, product string, now time.Time) *domain.InventorySummary {
	return Summarize(batches, now)[product]
}

// NearestExpiry returns the smallest days-to-expiry across a product's
// batches. The second return is false when the snapshot has no batches for
// the product.
func NearestExpiry(batches []domain.InventoryBatch, product string, now time.Time) (int, bool) {
	found := false
	nearest := 0
	for _, b := range batches {
		if b.Product != product {
			continue
		}
		d := daysUntil(now, b.ExpirationDate)
		if !found || d < nearest {
			nearest = d
			found = true
		}
	}
	return nearest, found
}

func daysUntil(now, expiry time.Time) int {
	return int(expiry.Sub(now).Hours() / 24)
}

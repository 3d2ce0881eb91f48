package repository

import (
	"context"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// SalesHistory provides read access to the historical sales dataset. Both the
// in-memory CSV store and the Postgres repository implement it.
type SalesHistory interface {
	// Products lists all known products.
	Products(ctx context.Context) ([]string, error)

	// GetRecent returns up to `days` most recent records for a product,
	// ascending by date. domain.ErrNotFound when the product is unknown.
	GetRecent(ctx context.Context, product string, days int) ([]domain.SalesRecord, error)

	// Latest returns the most recent record for a product.
	// domain.ErrNotFound when the product is unknown.
	Latest(ctx context.Context, product string) (domain.SalesRecord, error)
}

// InventorySnapshots provides the current batch-level inventory snapshot.
type InventorySnapshots interface {
	// CurrentBatches returns the batches for one product, or for all
	// products when product is empty.
	CurrentBatches(ctx context.Context, product string) ([]domain.InventoryBatch, error)
}

package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Store is the in-memory sales history and inventory snapshot, indexed by
// product. It is immutable after construction and safe for concurrent reads.
type Store struct {
	byProduct map[string][]domain.SalesRecord
	products  []string
	batches   []domain.InventoryBatch
}

// NewStore indexes the given records and batches. Per-product record slices
// are kept sorted ascending by date.
func NewStore(records []domain.SalesRecord, batches []domain.InventoryBatch) *Store {
	byProduct := make(map[string][]domain.SalesRecord)
	for _, r := range records {
		byProduct[r.Product] = append(byProduct[r.Product], r)
	}

	products := make([]string, 0, len(byProduct))
	for p, recs := range byProduct {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
		byProduct[p] = recs
		products = append(products, p)
	}
	sort.Strings(products)

	return &Store{
		byProduct: byProduct,
		products:  products,
		batches:   append([]domain.InventoryBatch(nil), batches...),
	}
}

// Open loads both CSV files and builds a store. The inventory file is
// optional; a missing file leaves the snapshot empty.
func Open(salesFile, inventoryFile string) (*Store, error) {
	records, err := LoadSales(salesFile)
	if err != nil {
		return nil, err
	}

	batches, err := LoadInventory(inventoryFile)
	if err != nil {
		batches = nil
	}

	return NewStore(records, batches), nil
}

func (s *Store) Products(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.products...), nil
}

func (s *Store) GetRecent(ctx context.Context, product string, days int) ([]domain.SalesRecord, error) {
	recs, ok := s.byProduct[product]
	if !ok {
		return nil, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	if days > 0 && len(recs) > days {
		recs = recs[len(recs)-days:]
	}
	return append([]domain.SalesRecord(nil), recs...), nil
}

func (s *Store) Latest(ctx context.Context, product string) (domain.SalesRecord, error) {
	recs, ok := s.byProduct[product]
	if !ok || len(recs) == 0 {
		return domain.SalesRecord{}, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	return recs[len(recs)-1], nil
}

// CurrentBatches returns the inventory snapshot for one product, or all
// batches when product is empty.
func (s *Store) CurrentBatches(ctx context.Context, product string) ([]domain.InventoryBatch, error) {
	if product == "" {
		return append([]domain.InventoryBatch(nil), s.batches...), nil
	}
	var out []domain.InventoryBatch
	for _, b := range s.batches {
		if b.Product == product {
			out = append(out, b)
		}
	}
	return out, nil
}

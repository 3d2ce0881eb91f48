package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/wasteless-ai/backend-go/internal/dataset"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Store is the write side of an upload: a whole batch lands or none of it does.
type Store interface {
	UpsertSalesRecords(ctx context.Context, records []domain.SalesRecord) error
	UpsertInventoryBatches(ctx context.Context, batches []domain.InventoryBatch) error
}

// Service parses uploaded CSVs and writes them through the store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// IngestSales parses and upserts a daily sales CSV. Returns the row count.
func (s *Service) IngestSales(ctx context.Context, r io.Reader, name string) (int, error) {
	records, err := dataset.ParseSales(r, name)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sales upload: %w", err)
	}

	if err := s.store.UpsertSalesRecords(ctx, records); err != nil {
		return 0, err
	}

	log.Info().Int("records", len(records)).Str("file", name).Msg("ingested sales upload")
	return len(records), nil
}

// IngestInventory parses and upserts an inventory batch CSV.
func (s *Service) IngestInventory(ctx context.Context, r io.Reader, name string) (int, error) {
	batches, err := dataset.ParseInventory(r, name)
	if err != nil {
		return 0, fmt.Errorf("failed to parse inventory upload: %w", err)
	}

	if err := s.store.UpsertInventoryBatches(ctx, batches); err != nil {
		return 0, err
	}

	log.Info().Int("batches", len(batches)).Str("file", name).Msg("ingested inventory upload")
	return len(batches), nil
}

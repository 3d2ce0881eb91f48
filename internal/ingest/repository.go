// Package ingest receives dataset CSV uploads over HTTP and upserts them into
// Postgres, replacing the previous batch-file drop workflow.
package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/repository/postgres"
)

const upsertSalesQuery = `
	INSERT INTO daily_sales (product, date, quantity_sold, quantity_wasted,
		temperature, precipitation, is_weekend, is_holiday, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	ON CONFLICT (product, date)
	DO UPDATE SET
		quantity_sold = EXCLUDED.quantity_sold,
		quantity_wasted = EXCLUDED.quantity_wasted,
		temperature = EXCLUDED.temperature,
		precipitation = EXCLUDED.precipitation,
		is_weekend = EXCLUDED.is_weekend,
		is_holiday = EXCLUDED.is_holiday,
		updated_at = NOW()
`

const upsertInventoryQuery = `
	INSERT INTO inventory_batches (product, batch_id, date_acquired, expiration_date, quantity, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (product, batch_id)
	DO UPDATE SET
		date_acquired = EXCLUDED.date_acquired,
		expiration_date = EXCLUDED.expiration_date,
		quantity = EXCLUDED.quantity,
		updated_at = NOW()
`

// Repository persists uploaded dataset rows. Each upload is written inside a
// single transaction so a failed row leaves no partial batch behind.
type Repository struct {
	db *postgres.DB
}

func NewRepository(db *postgres.DB) *Repository {
	return &Repository{db: db}
}

// UpsertSalesRecords writes a full sales upload atomically.
func (r *Repository) UpsertSalesRecords(ctx context.Context, records []domain.SalesRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range records {
			rec := &records[i]
			_, err := tx.ExecContext(ctx, upsertSalesQuery,
				rec.Product,
				rec.Date,
				rec.QuantitySold,
				rec.QuantityWasted,
				rec.Temperature,
				rec.Precipitation,
				rec.IsWeekend,
				rec.IsHoliday,
			)
			if err != nil {
				return fmt.Errorf("row %d: failed to upsert sales record: %w", i+1, err)
			}
		}
		return nil
	})
}

// UpsertInventoryBatches writes a full inventory upload atomically.
func (r *Repository) UpsertInventoryBatches(ctx context.Context, batches []domain.InventoryBatch) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range batches {
			b := &batches[i]
			_, err := tx.ExecContext(ctx, upsertInventoryQuery,
				b.Product,
				b.BatchID,
				b.DateAcquired,
				b.ExpirationDate,
				b.Quantity,
			)
			if err != nil {
				return fmt.Errorf("row %d: failed to upsert inventory batch: %w", i+1, err)
			}
		}
		return nil
	})
}

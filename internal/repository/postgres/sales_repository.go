package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// SalesRepository reads sales history and inventory snapshots from Postgres.
// Rows are written by cmd/seed; the server only reads.
type SalesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *SalesRepository {
	return &SalesRepository{db: db}
}

func (r *SalesRepository) Products(ctx context.Context) ([]string, error) {
	var products []string
	err := r.db.SelectContext(ctx, &products,
		`SELECT DISTINCT product FROM daily_sales ORDER BY product`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *SalesRepository) GetRecent(ctx context.Context, product string, days int) ([]domain.SalesRecord, error) {
	query := `
		SELECT product, date, quantity_sold, quantity_wasted,
		       temperature, precipitation, is_weekend, is_holiday
		FROM (
			SELECT * FROM daily_sales
			WHERE product = $1
			ORDER BY date DESC
			LIMIT $2
		) recent
		ORDER BY date ASC`

	// days <= 0 means the full history; LIMIT NULL places no bound.
	var limit interface{}
	if days > 0 {
		limit = days
	}

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, product, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch sales history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	return records, nil
}

func (r *SalesRepository) Latest(ctx context.Context, product string) (domain.SalesRecord, error) {
	query := `
		SELECT product, date, quantity_sold, quantity_wasted,
		       temperature, precipitation, is_weekend, is_holiday
		FROM daily_sales
		WHERE product = $1
		ORDER BY date DESC
		LIMIT 1`

	var record domain.SalesRecord
	err := r.db.GetContext(ctx, &record, query, product)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SalesRecord{}, fmt.Errorf("no sales history for %s: %w", product, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("failed to fetch latest record: %w", err)
	}
	return record, nil
}

func (r *SalesRepository) CurrentBatches(ctx context.Context, product string) ([]domain.InventoryBatch, error) {
	query := `
		SELECT product, batch_id, date_acquired, expiration_date, quantity
		FROM inventory_batches`
	args := []interface{}{}
	if product != "" {
		query += ` WHERE product = $1`
		args = append(args, product)
	}
	query += ` ORDER BY expiration_date ASC`

	var batches []domain.InventoryBatch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch inventory batches: %w", err)
	}
	return batches, nil
}

// Package dataset loads the sales and inventory CSV files into immutable
// in-memory stores. The files are read once at startup; analyses treat the
// loaded data as read-only for the lifetime of the process.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

const dateLayout = "2006-01-02"

// LoadSales parses a daily sales CSV file. Expected columns: product, date,
// items_sold, items_wasted, temperature, precipitation, isWeekend, isHoliday
// (legacy header names are accepted, see colIndex).
func LoadSales(path string) ([]domain.SalesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file: %w", err)
	}
	defer f.Close()

	return ParseSales(f, path)
}

// ParseSales parses daily sales CSV content.
func ParseSales(r io.Reader, name string) ([]domain.SalesRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	if err := requireColumns(colMap, name,
		[]string{"product", "product_name"},
		[]string{"date"},
		[]string{"items_sold", "quantity_sold"},
		[]string{"items_wasted", "quantity_wasted"},
	); err != nil {
		return nil, err
	}

	var records []domain.SalesRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		line++

		date, err := time.Parse(dateLayout, field(row, colIndex(colMap, "date")))
		if err != nil {
			log.Warn().Int("line", line).Str("file", name).Msg("skipping row with bad date")
			continue
		}

		sold, _ := strconv.Atoi(field(row, colIndex(colMap, "items_sold", "quantity_sold")))
		wasted, _ := strconv.Atoi(field(row, colIndex(colMap, "items_wasted", "quantity_wasted")))
		temp, _ := strconv.ParseFloat(field(row, colIndex(colMap, "temperature", "temperature_2m_mean")), 64)
		precip, _ := strconv.ParseFloat(field(row, colIndex(colMap, "precipitation", "precipitation_sum")), 64)

		records = append(records, domain.SalesRecord{
			Product:        strings.TrimSpace(field(row, colIndex(colMap, "product", "product_name"))),
			Date:           date,
			QuantitySold:   sold,
			QuantityWasted: wasted,
			Temperature:    temp,
			Precipitation:  precip,
			IsWeekend:      parseBool(field(row, colIndex(colMap, "isWeekend", "is_weekend"))),
			IsHoliday:      parseBool(field(row, colIndex(colMap, "isHoliday", "is_holiday"))),
		})
	}

	log.Info().Int("records", len(records)).Str("file", name).Msg("loaded sales dataset")
	return records, nil
}

// LoadInventory parses an inventory batch CSV file. Expected columns: product,
// batch, date_bought, expiration_date, quantity.
func LoadInventory(path string) ([]domain.InventoryBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()

	return ParseInventory(f, path)
}

// ParseInventory parses inventory batch CSV content.
func ParseInventory(r io.Reader, name string) ([]domain.InventoryBatch, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	if err := requireColumns(colMap, name,
		[]string{"product"},
		[]string{"batch", "batch_id"},
		[]string{"date_bought", "date_acquired"},
		[]string{"expiration_date"},
		[]string{"quantity"},
	); err != nil {
		return nil, err
	}

	var batches []domain.InventoryBatch
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		acquired, err := time.Parse(dateLayout, field(row, colIndex(colMap, "date_bought", "date_acquired")))
		if err != nil {
			continue
		}
		expiry, err := time.Parse(dateLayout, field(row, colIndex(colMap, "expiration_date")))
		if err != nil {
			continue
		}
		if expiry.Before(acquired) {
			log.Warn().Str("file", name).Msg("skipping batch expiring before acquisition")
			continue
		}

		qty, _ := strconv.Atoi(field(row, colIndex(colMap, "quantity")))
		batches = append(batches, domain.InventoryBatch{
			Product:        strings.TrimSpace(field(row, colIndex(colMap, "product"))),
			BatchID:        strings.TrimSpace(field(row, colIndex(colMap, "batch", "batch_id"))),
			DateAcquired:   acquired,
			ExpirationDate: expiry,
			Quantity:       qty,
		})
	}

	log.Info().Int("batches", len(batches)).Str("file", name).Msg("loaded inventory snapshot")
	return batches, nil
}

// requireColumns verifies that each header group resolves to a column under
// at least one of its accepted names. Optional columns (weather, day flags)
// are not checked here and fall back to empty values when absent.
func requireColumns(colMap map[string]int, name string, groups ...[]string) error {
	for _, names := range groups {
		if colIndex(colMap, names...) < 0 {
			return fmt.Errorf("%w: %s is missing required column %q", domain.ErrInvalidInput, name, names[0])
		}
	}
	return nil
}

// colIndex resolves the first matching header name, or -1 when none matches.
func colIndex(colMap map[string]int, names ...string) int {
	for _, n := range names {
		if i, ok := colMap[n]; ok {
			return i
		}
	}
	return -1
}

// field reads a column from a row, tolerating missing columns and ragged rows.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes":
		return true
	}
	return false
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/forecast"
)

// wasteRecord builds a day with the given sold/wasted split.
func wasteRecord(product string, day, sold, wasted int) domain.SalesRecord {
	return domain.SalesRecord{
		Product:        product,
		Date:           refDate.AddDate(0, 0, day-6),
		QuantitySold:   sold,
		QuantityWasted: wasted,
		Temperature:    65,
	}
}

func newInsightsFixture() *InsightsService {
	records := map[string][]domain.SalesRecord{}
	// Milk wastes 30% of throughput, Bread 20%, Apples none.
	for day := 0; day < 7; day++ {
		records["Milk"] = append(records["Milk"], wasteRecord("Milk", day, 7, 3))
		records["Bread"] = append(records["Bread"], wasteRecord("Bread", day, 8, 2))
		records["Apples"] = append(records["Apples"], wasteRecord("Apples", day, 10, 0))
	}

	registry := forecast.NewRegistry(map[string]forecast.Model{
		"Milk":   constModel{yhat: 10},
		"Bread":  constModel{yhat: 10},
		"Apples": constModel{yhat: 10},
	})

	analysis := NewAnalysisService(
		&stubHistory{records: records},
		&stubSnapshots{},
		forecast.NewForecaster(registry),
		stubWeatherProvider{source: "mock"},
		nil,
		nil,
	)
	analysis.now = func() time.Time { return refDate }

	return NewInsightsService(analysis)
}

func TestUrgentDiscountsSortsByUrgency(t *testing.T) {
	svc := newInsightsFixture()

	insights, err := svc.UrgentDiscounts(context.Background())
	require.NoError(t, err)

	// Apples has no waste and sells on forecast, so it never appears.
	require.Len(t, insights, 2)
	assert.Equal(t, "Milk", insights[0].Product)
	assert.Equal(t, domain.UrgencyHigh, insights[0].Urgency)
	assert.InDelta(t, 30, insights[0].DiscountPct, 1e-9)
	assert.Equal(t, "Bread", insights[1].Product)
	assert.Equal(t, domain.UrgencyMedium, insights[1].Urgency)
}

func TestAllOrderRecommendationsKeepsProductOrder(t *testing.T) {
	svc := newInsightsFixture()

	recs, err := svc.AllOrderRecommendations(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, "Apples", recs[0].Product)
	assert.Equal(t, "Bread", recs[1].Product)
	assert.Equal(t, "Milk", recs[2].Product)
}

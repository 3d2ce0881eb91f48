package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// stubEngine returns a fixed JSON payload or error.
type stubEngine struct {
	payload string
	err     error
}

func (s *stubEngine) GenerateText(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.payload, nil
}

func (s *stubEngine) GenerateJSON(_ context.Context, _ string, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.payload), out)
}

func TestDecideWithFallback(t *testing.T) {
	type verdict struct {
		Level string `json:"level"`
	}
	validate := func(v verdict) error {
		if v.Level == "" {
			return errors.New("missing level")
		}
		return nil
	}
	fallback := func() verdict { return verdict{Level: "default"} }
	ctx := context.Background()

	t.Run("valid payload uses the engine", func(t *testing.T) {
		engine := &stubEngine{payload: `{"level": "high"}`}
		out, source := DecideWithFallback(ctx, engine, "verdict", "prompt", validate, fallback)
		assert.Equal(t, SourceReasoning, source)
		assert.Equal(t, "high", out.Level)
	})

	t.Run("validation failure falls back", func(t *testing.T) {
		engine := &stubEngine{payload: `{"level": ""}`}
		out, source := DecideWithFallback(ctx, engine, "verdict", "prompt", validate, fallback)
		assert.Equal(t, SourceFallback, source)
		assert.Equal(t, "default", out.Level)
	})

	t.Run("engine error falls back", func(t *testing.T) {
		engine := &stubEngine{err: errors.New("upstream timeout")}
		out, source := DecideWithFallback(ctx, engine, "verdict", "prompt", validate, fallback)
		assert.Equal(t, SourceFallback, source)
		assert.Equal(t, "default", out.Level)
	})

	t.Run("nil engine falls back without calling out", func(t *testing.T) {
		out, source := DecideWithFallback(ctx, nil, "verdict", "prompt", validate, fallback)
		assert.Equal(t, SourceFallback, source)
		assert.Equal(t, "default", out.Level)
	})
}

func TestDecideDiscountUsesEngine(t *testing.T) {
	engine := &stubEngine{payload: `{
		"needs_discount": true,
		"urgency": "high",
		"discount_pct": 25,
		"reasoning": "Stock is piling up against a near expiry"
	}`}

	rec := DecideDiscount(context.Background(), engine, DiscountInput{
		Product:         "Milk",
		DaysUntilExpiry: 3,
		WasteRatePct:    18,
		PerformancePct:  80,
	})

	assert.Equal(t, SourceReasoning, rec.Source)
	assert.True(t, rec.NeedsDiscount)
	assert.Equal(t, domain.UrgencyHigh, rec.Urgency)
	assert.Equal(t, 25.0, rec.DiscountPct)
	assert.Equal(t, 18.0, rec.WasteRatePct)
}

func TestDecideDiscountClampsEngineDiscount(t *testing.T) {
	engine := &stubEngine{payload: `{
		"needs_discount": true,
		"urgency": "high",
		"discount_pct": 90,
		"reasoning": "Aggressive markdown"
	}`}

	rec := DecideDiscount(context.Background(), engine, DiscountInput{Product: "Milk"})

	assert.Equal(t, 50.0, rec.DiscountPct)
}

func TestDecideDiscountEngineErrorFallsBack(t *testing.T) {
	engine := &stubEngine{err: errors.New("upstream timeout")}

	rec := DecideDiscount(context.Background(), engine, DiscountInput{
		Product:         "Milk",
		DaysUntilExpiry: 2,
	})

	assert.Equal(t, SourceFallback, rec.Source)
	assert.True(t, rec.NeedsDiscount)
	assert.Equal(t, domain.UrgencyHigh, rec.Urgency)
	assert.Equal(t, 30.0, rec.DiscountPct)
	assert.Equal(t, "Expires in 2 days - urgent discount needed", rec.Reasoning)
}

func TestDecideDiscountMalformedUrgencyFallsBack(t *testing.T) {
	engine := &stubEngine{payload: `{
		"needs_discount": true,
		"urgency": "catastrophic",
		"discount_pct": 25,
		"reasoning": "bad enum"
	}`}

	rec := DecideDiscount(context.Background(), engine, DiscountInput{
		Product:         "Milk",
		DaysUntilExpiry: 4,
	})

	assert.Equal(t, SourceFallback, rec.Source)
	assert.Equal(t, domain.UrgencyMedium, rec.Urgency)
	assert.Equal(t, 20.0, rec.DiscountPct)
}

func TestDecideDiscountNilEngine(t *testing.T) {
	rec := DecideDiscount(context.Background(), nil, DiscountInput{
		Product:         "Milk",
		DaysUntilExpiry: 10,
	})

	assert.Equal(t, SourceFallback, rec.Source)
	assert.False(t, rec.NeedsDiscount)
	assert.Equal(t, "Sufficient time before expiration", rec.Reasoning)
}

func TestDecideSupplierOrderUsesEngine(t *testing.T) {
	engine := &stubEngine{payload: `{
		"recommended_order_quantity": 120,
		"reasoning": "Demand is trending up"
	}`}

	qty, reason, source := DecideSupplierOrder(context.Background(), engine, SupplierOrderInput{
		Product:       "Milk",
		ForecastTotal: 100,
	})

	assert.Equal(t, SourceReasoning, source)
	assert.Equal(t, 120.0, qty)
	assert.Equal(t, "Demand is trending up", reason)
}

func TestDecideSupplierOrderFallbackAddsSafetyStock(t *testing.T) {
	qty, reason, source := DecideSupplierOrder(context.Background(), nil, SupplierOrderInput{
		Product:       "Milk",
		ForecastTotal: 100,
	})

	assert.Equal(t, SourceFallback, source)
	assert.InDelta(t, 110.0, qty, 1e-9)
	assert.Equal(t, "Order adjusted to 110 units based on forecast analysis with 10% safety stock.", reason)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractJSON("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, "", extractJSON("no json here"))
}

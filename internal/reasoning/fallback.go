package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/pricing"
	"github.com/wasteless-ai/backend-go/pkg/logger"
)

// Decision source values recorded on every recommendation.
const (
	SourceReasoning = "reasoning"
	SourceFallback  = "fallback"
)

// DiscountInput is the structured context handed to the reasoning engine for
// an expiring-inventory discount decision.
type DiscountInput struct {
	Product         string  `json:"product"`
	DaysUntilExpiry int     `json:"days_until_expiry"`
	CurrentQuantity int     `json:"current_quantity"`
	WasteRatePct    float64 `json:"waste_rate_pct"`
	PerformancePct  float64 `json:"performance_pct"`
	AvgDailySales   float64 `json:"avg_daily_sales"`
}

type discountDecision struct {
	NeedsDiscount bool    `json:"needs_discount"`
	Urgency       string  `json:"urgency"`
	DiscountPct   float64 `json:"discount_pct"`
	Reasoning     string  `json:"reasoning"`
}

// DecideWithFallback runs the decision sequence shared by every structured
// call to the engine: generate JSON, validate it, and on any failure log once
// and return the deterministic fallback instead. The second return value is
// SourceReasoning or SourceFallback depending on which path produced T.
func DecideWithFallback[T any](ctx context.Context, engine Engine, name, prompt string, validate func(T) error, fallback func() T) (T, string) {
	if engine != nil {
		var out T
		err := engine.GenerateJSON(ctx, prompt, &out)
		if err == nil {
			if err = validate(out); err == nil {
				return out, SourceReasoning
			}
		}
		logger.Log.Warn().Err(err).Str("decision", name).
			Msg("reasoning failed, using deterministic fallback")
	}
	return fallback(), SourceFallback
}

// DecideDiscount asks the engine for a discount decision and validates the
// result. Any engine failure or malformed field drops to the deterministic
// expiry-tier fallback, so the returned recommendation is always usable.
func DecideDiscount(ctx context.Context, engine Engine, in DiscountInput) domain.DiscountRecommendation {
	out, source := DecideWithFallback(ctx, engine, "discount:"+in.Product, discountPrompt(in),
		func(d discountDecision) error {
			if _, ok := domain.ParseUrgency(d.Urgency); !ok || d.Reasoning == "" {
				return fmt.Errorf("invalid decision fields: urgency=%q", d.Urgency)
			}
			return nil
		},
		func() discountDecision {
			needs, urgency, pct, reason := pricing.ExpiryTierFallback(in.DaysUntilExpiry)
			return discountDecision{
				NeedsDiscount: needs,
				Urgency:       string(urgency),
				DiscountPct:   pct,
				Reasoning:     reason,
			}
		})

	urgency, _ := domain.ParseUrgency(out.Urgency)
	return domain.DiscountRecommendation{
		Product:        in.Product,
		NeedsDiscount:  out.NeedsDiscount,
		Urgency:        urgency,
		DiscountPct:    pricing.ClampDiscount(out.DiscountPct),
		Reasoning:      out.Reasoning,
		WasteRatePct:   in.WasteRatePct,
		PerformancePct: in.PerformancePct,
		Source:         source,
	}
}

// SupplierOrderInput is the context for a supplier order quantity decision.
type SupplierOrderInput struct {
	Product             string  `json:"product"`
	ForecastTotal       float64 `json:"forecast_total"`
	HistoricalWeeklyAvg float64 `json:"historical_weekly_avg"`
	ChangePct           float64 `json:"change_pct"`
	WeatherImpact       string  `json:"weather_impact"`
}

type supplierOrderDecision struct {
	RecommendedOrderQuantity float64 `json:"recommended_order_quantity"`
	Reasoning                string  `json:"reasoning"`
}

// DecideSupplierOrder asks the engine for an order quantity. On any failure
// the fallback orders the forecast total plus 10% safety stock.
func DecideSupplierOrder(ctx context.Context, engine Engine, in SupplierOrderInput) (float64, string, string) {
	out, source := DecideWithFallback(ctx, engine, "supplier_order:"+in.Product, supplierOrderPrompt(in),
		func(d supplierOrderDecision) error {
			if d.RecommendedOrderQuantity < 0 || d.Reasoning == "" {
				return fmt.Errorf("invalid decision fields: quantity=%.1f", d.RecommendedOrderQuantity)
			}
			return nil
		},
		func() supplierOrderDecision {
			qty := in.ForecastTotal * 1.1
			return supplierOrderDecision{
				RecommendedOrderQuantity: qty,
				Reasoning:                fmt.Sprintf("Order adjusted to %.0f units based on forecast analysis with 10%% safety stock.", qty),
			}
		})
	return out.RecommendedOrderQuantity, out.Reasoning, source
}

func supplierOrderPrompt(in SupplierOrderInput) string {
	var sb strings.Builder
	sb.WriteString("You are a supply chain analyst preparing a supplier order recommendation.\n")
	sb.WriteString("Respond with a single JSON object: ")
	sb.WriteString(`{"recommended_order_quantity": number, "reasoning": string}.`)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Product: %s\n", in.Product)
	fmt.Fprintf(&sb, "Next week forecast: %.0f units\n", in.ForecastTotal)
	fmt.Fprintf(&sb, "Historical weekly average: %.0f units\n", in.HistoricalWeeklyAvg)
	fmt.Fprintf(&sb, "Change: %+.1f%%\n", in.ChangePct)
	fmt.Fprintf(&sb, "Weather impact: %s\n", in.WeatherImpact)
	sb.WriteString("\nConsider safety stock (+10%). Explain the reasoning briefly.")
	return sb.String()
}

func discountPrompt(in DiscountInput) string {
	var sb strings.Builder
	sb.WriteString("You are a grocery pricing analyst deciding whether to discount perishable stock.\n")
	sb.WriteString("Respond with a single JSON object: ")
	sb.WriteString(`{"needs_discount": bool, "urgency": "none"|"low"|"medium"|"high", "discount_pct": number (0-50), "reasoning": string}.`)
	sb.WriteString("\n\nProduct data:\n")
	fmt.Fprintf(&sb, "- product: %s\n", in.Product)
	fmt.Fprintf(&sb, "- days until nearest expiry: %d\n", in.DaysUntilExpiry)
	fmt.Fprintf(&sb, "- current quantity on hand: %d\n", in.CurrentQuantity)
	fmt.Fprintf(&sb, "- trailing waste rate: %.1f%%\n", in.WasteRatePct)
	fmt.Fprintf(&sb, "- sales performance vs forecast: %.1f%%\n", in.PerformancePct)
	fmt.Fprintf(&sb, "- average daily sales: %.1f units\n", in.AvgDailySales)
	return sb.String()
}

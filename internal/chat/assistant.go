package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/reasoning"
	"github.com/wasteless-ai/backend-go/internal/service"
)

const systemInstruction = `You are an AI assistant for WasteLess, a grocery store supply chain management system.

Your role:
- Help store managers reduce food waste through data-driven decisions
- Explain demand forecasts in clear, actionable language
- Provide detailed analysis with specific numbers and data points
- Reference historical trends, weather impacts, and seasonal patterns
- Be proactive with recommendations

Communication style:
- Professional but conversational
- Always cite specific data (dates, quantities, percentages)
- Explain the reasoning behind predictions
- Give clear, actionable recommendations
- Be concise but thorough`

const fallbackGreeting = "Good morning! All products are performing well today with low waste rates. How can I help you manage your inventory?"

// dataNeeds is what the reasoning engine decided the question requires.
type dataNeeds struct {
	NeedsCurrentStatus   bool     `json:"needs_current_status"`
	NeedsForecast        bool     `json:"needs_forecast"`
	NeedsHistoricalTrend bool     `json:"needs_historical_trend"`
	NeedsWeatherAnalysis bool     `json:"needs_weather_analysis"`
	NeedsDiscount        bool     `json:"needs_discount_recommendation"`
	Products             []string `json:"products"`
	TimeframeDays        int      `json:"timeframe_days"`
}

// Reply is the assistant's answer plus the structured data it consulted.
type Reply struct {
	SessionID string         `json:"session_id"`
	Response  string         `json:"response"`
	DataUsed  map[string]any `json:"data_used"`
}

// Assistant answers store-manager questions using live analysis data.
type Assistant struct {
	analysis *service.AnalysisService
	insights *service.InsightsService
	engine   reasoning.Engine
	sessions *SessionStore
}

func NewAssistant(analysis *service.AnalysisService, insights *service.InsightsService, engine reasoning.Engine) *Assistant {
	return &Assistant{
		analysis: analysis,
		insights: insights,
		engine:   engine,
		sessions: NewSessionStore(),
	}
}

// HandleMessage runs the full pipeline: decide what data the question needs,
// gather it, and generate a response grounded in that data.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrInvalidInput)
	}

	sess := a.sessions.GetOrCreate(sessionID)

	needs := a.identifyDataNeeds(ctx, message)
	data := a.gatherData(ctx, needs)
	response := a.generateResponse(ctx, message, data, a.sessions.History(sess.ID))

	a.sessions.Append(sess.ID, "user", message)
	a.sessions.Append(sess.ID, "assistant", response)

	return &Reply{
		SessionID: sess.ID,
		Response:  response,
		DataUsed:  data,
	}, nil
}

// Greeting builds the proactive opener. Urgent discount findings are narrated
// by the reasoning engine; without findings or an engine, a canned greeting.
func (a *Assistant) Greeting(ctx context.Context) string {
	insights, err := a.insights.UrgentDiscounts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("greeting insights failed")
		return fallbackGreeting
	}
	if len(insights) == 0 {
		return fallbackGreeting
	}

	if a.engine != nil {
		payload, _ := json.MarshalIndent(insights, "", "  ")
		prompt := fmt.Sprintf(`%s

Generate a friendly, proactive greeting for the store manager.

Current situation:
%s

The greeting should:
- Be warm and professional
- Highlight the most urgent issues (2-3 items max)
- Include specific recommendations
- End with "How can I help you today?" or similar

Keep it concise (3-4 sentences).`, systemInstruction, payload)

		greeting, err := a.engine.GenerateText(ctx, prompt)
		if err == nil {
			return greeting
		}
		log.Warn().Err(err).Msg("greeting generation failed, using canned text")
	}

	return cannedInsightGreeting(insights)
}

func (a *Assistant) identifyDataNeeds(ctx context.Context, message string) dataNeeds {
	// Fallback: current status for everything.
	defaults := func() dataNeeds {
		return dataNeeds{
			NeedsCurrentStatus: true,
			Products:           []string{"all"},
			TimeframeDays:      7,
		}
	}

	if a.engine == nil {
		return defaults()
	}

	products, err := a.analysis.Products(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("product list unavailable for data-needs prompt")
		return defaults()
	}

	prompt := fmt.Sprintf(`You are a data analyst identifying information needs.
Analyze this user question and determine what data is needed to answer it.

User question: %q

Available products: %s

Respond with a single JSON object:
{"needs_current_status": bool, "needs_forecast": bool, "needs_historical_trend": bool,
 "needs_weather_analysis": bool, "needs_discount_recommendation": bool,
 "products": [product names, or ["all"]], "timeframe_days": int (default 7)}`,
		message, strings.Join(products, ", "))

	needs, _ := reasoning.DecideWithFallback(ctx, a.engine, "data_needs", prompt,
		func(dataNeeds) error { return nil }, defaults)
	if len(needs.Products) == 0 {
		needs.Products = []string{"all"}
	}
	if needs.TimeframeDays <= 0 {
		needs.TimeframeDays = 7
	}

	return needs
}

func (a *Assistant) gatherData(ctx context.Context, needs dataNeeds) map[string]any {
	products := needs.Products
	if len(products) == 1 && strings.EqualFold(products[0], "all") {
		all, err := a.analysis.Products(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("product list unavailable for data gathering")
			return map[string]any{}
		}
		products = all
	}

	gathered := make(map[string]any, len(products))
	for _, product := range products {
		data := map[string]any{"product": product}

		if needs.NeedsCurrentStatus {
			if status, err := a.analysis.CurrentStatus(ctx, product); err == nil {
				data["current_status"] = status
			}
		}
		if needs.NeedsForecast {
			if fc, err := a.analysis.Forecast(ctx, product, needs.TimeframeDays); err == nil {
				data["forecast"] = fc
			}
		}
		if needs.NeedsHistoricalTrend {
			if trend, err := a.analysis.Trend(ctx, product, 30); err == nil {
				data["historical_trend"] = trend
			}
		}
		if needs.NeedsWeatherAnalysis {
			if impact, err := a.analysis.WeatherImpact(ctx, product); err == nil {
				data["weather_impact"] = impact
			}
		}
		if needs.NeedsDiscount {
			if rec, err := a.analysis.WasteDiscount(ctx, product); err == nil {
				data["discount_recommendation"] = rec
			}
		}

		gathered[product] = data
	}

	return gathered
}

func (a *Assistant) generateResponse(ctx context.Context, message string, data map[string]any, history []Turn) string {
	if a.engine == nil {
		return summarizeData(data)
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}

	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\n")

	if len(history) > 0 {
		sb.WriteString("Previous conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, `User asked: %q

Here is the relevant data from our system:

%s

Generate a detailed, helpful response that:
1. Directly answers their question
2. Cites specific numbers and data points
3. Explains the reasoning (forecasts, weather correlations, historical patterns)
4. Provides clear, actionable recommendations

Be conversational but data-driven. Always include specifics.`, message, payload)

	response, err := a.engine.GenerateText(ctx, sb.String())
	if err != nil {
		log.Warn().Err(err).Msg("chat response generation failed, using data summary")
		return summarizeData(data)
	}

	return response
}

// summarizeData is the deterministic fallback response when no reasoning
// engine is available: a terse readout of whatever was gathered.
func summarizeData(data map[string]any) string {
	if len(data) == 0 {
		return "I could not find any matching product data. Try asking about a specific product."
	}

	var sb strings.Builder
	sb.WriteString("Here is what I found:\n")
	for product, v := range data {
		payload, err := json.Marshal(v)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", product, payload)
	}
	return sb.String()
}

func cannedInsightGreeting(insights []service.Insight) string {
	var sb strings.Builder
	sb.WriteString("Good morning! A few products need attention today: ")
	for i, in := range insights {
		if i >= 3 {
			break
		}
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s (%s urgency, %.0f%% discount recommended)", in.Product, in.Urgency, in.DiscountPct)
	}
	sb.WriteString(". How can I help you today?")
	return sb.String()
}

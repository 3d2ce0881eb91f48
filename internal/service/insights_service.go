package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// maxConcurrentProducts bounds the per-product fan-out.
const maxConcurrentProducts = 4

// Insight is one product-level finding surfaced to the store manager.
type Insight struct {
	Product     string         `json:"product"`
	Urgency     domain.Urgency `json:"urgency"`
	DiscountPct float64        `json:"discount_pct"`
	Reason      string         `json:"reason"`
}

// InsightsService runs per-product analyses across the whole catalog.
type InsightsService struct {
	analysis *AnalysisService
}

func NewInsightsService(analysis *AnalysisService) *InsightsService {
	return &InsightsService{analysis: analysis}
}

// UrgentDiscounts collects products that currently need a discount, most
// urgent first. Products whose analysis fails are skipped, not fatal.
func (s *InsightsService) UrgentDiscounts(ctx context.Context) ([]Insight, error) {
	products, err := s.analysis.Products(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		insights []Insight
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProducts)

	for _, product := range products {
		g.Go(func() error {
			rec, err := s.analysis.WasteDiscount(gctx, product)
			if err != nil {
				log.Warn().Err(err).Str("product", product).Msg("discount insight failed")
				return nil
			}
			if !rec.NeedsDiscount {
				return nil
			}

			mu.Lock()
			insights = append(insights, Insight{
				Product:     rec.Product,
				Urgency:     rec.Urgency,
				DiscountPct: rec.DiscountPct,
				Reason:      rec.Reasoning,
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Urgency != insights[j].Urgency {
			return domain.MoreUrgent(insights[i].Urgency, insights[j].Urgency)
		}
		return insights[i].Product < insights[j].Product
	})

	return insights, nil
}

// AllOrderRecommendations sizes the next order for every product.
func (s *InsightsService) AllOrderRecommendations(ctx context.Context, daysAhead int) ([]domain.OrderRecommendation, error) {
	products, err := s.analysis.Products(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]domain.OrderRecommendation, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProducts)

	for i, product := range products {
		g.Go(func() error {
			rec, err := s.analysis.OrderRecommendation(gctx, product, daysAhead)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return recs, nil
}

package weather

import (
	"context"

	"github.com/wasteless-ai/backend-go/internal/cache"
	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/pkg/logger"
)

// Forecaster fetches daily weather. Satisfied by *Client.
type Forecaster interface {
	Forecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, error)
}

// Provider serves forecasts from cache, then the live client, then the mock
// sequence. The returned source string records which path produced the data.
type Provider struct {
	client Forecaster
	cache  cache.WeatherCache
}

func NewProvider(client Forecaster, weatherCache cache.WeatherCache) *Provider {
	if weatherCache == nil {
		weatherCache = cache.NewNoopWeatherCache()
	}
	return &Provider{
		client: client,
		cache:  weatherCache,
	}
}

// Forecast returns daysAhead days of weather plus the provenance of the data,
// SourceLive or SourceMock. It never fails: when the live client is missing or
// errors, the deterministic mock sequence is substituted.
func (p *Provider) Forecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, string) {
	if daysAhead < 1 {
		return nil, SourceMock
	}

	if days, ok, err := p.cache.GetForecast(ctx, daysAhead); err != nil {
		logger.Log.Warn().Err(err).Msg("weather cache read failed")
	} else if ok {
		return days, SourceLive
	}

	if p.client != nil {
		days, err := p.client.Forecast(ctx, daysAhead)
		if err == nil {
			if err := p.cache.SetForecast(ctx, daysAhead, days); err != nil {
				logger.Log.Warn().Err(err).Msg("weather cache write failed")
			}
			return days, SourceLive
		}
		logger.Log.Warn().Err(err).Msg("live weather fetch failed, using mock forecast")
	}

	return MockForecast(daysAhead), SourceMock
}

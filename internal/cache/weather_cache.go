// Package cache holds the Redis-backed weather forecast cache. Live weather
// responses are cached per request window and expire hourly so a busy
// storefront does not hammer the upstream API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wasteless-ai/backend-go/internal/config"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

const (
	weatherKeyPrefix  = "weather:forecast"
	defaultWeatherTTL = time.Hour
)

// WeatherCache stores fetched forecasts keyed by window length and hour bucket.
type WeatherCache interface {
	GetForecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, bool, error)
	SetForecast(ctx context.Context, daysAhead int, days []domain.WeatherDay) error
}

type redisWeatherCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopWeatherCache struct{}

func NewWeatherCache(cfg config.CacheConfig) (WeatherCache, error) {
	if !cfg.Enabled {
		return &noopWeatherCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.WeatherTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultWeatherTTL
	}

	return &redisWeatherCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopWeatherCache() WeatherCache {
	return &noopWeatherCache{}
}

func (c *redisWeatherCache) GetForecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, bool, error) {
	payload, err := c.client.Get(ctx, buildWeatherKey(daysAhead)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var days []domain.WeatherDay
	if err := json.Unmarshal(payload, &days); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached forecast: %w", err)
	}

	return days, true, nil
}

func (c *redisWeatherCache) SetForecast(ctx context.Context, daysAhead int, days []domain.WeatherDay) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to encode forecast: %w", err)
	}

	if err := c.client.Set(ctx, buildWeatherKey(daysAhead), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *noopWeatherCache) GetForecast(_ context.Context, _ int) ([]domain.WeatherDay, bool, error) {
	return nil, false, nil
}

func (c *noopWeatherCache) SetForecast(_ context.Context, _ int, _ []domain.WeatherDay) error {
	return nil
}

// buildWeatherKey buckets entries by the hour they were fetched so entries
// age out together even when the TTL is long.
func buildWeatherKey(daysAhead int) string {
	return fmt.Sprintf("%s:%d:%s", weatherKeyPrefix, daysAhead, time.Now().UTC().Format("2006010215"))
}

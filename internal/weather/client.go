// Package weather supplies multi-day {temperature, precipitation} sequences
// for forecasting, from the OpenWeather daily forecast API when configured and
// from a deterministic mock fallback otherwise. Every result carries a
// provenance flag so callers can tell which source produced it.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wasteless-ai/backend-go/internal/config"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Provenance values reported with every forecast.
const (
	SourceLive = "live"
	SourceMock = "mock"
)

// maxAPIDays is the largest window the OpenWeather daily endpoint supports.
const maxAPIDays = 16

// Client calls the OpenWeather daily forecast endpoint.
type Client struct {
	apiKey  string
	baseURL string
	lat     float64
	lon     float64
	http    *http.Client
}

func NewClient(cfg config.WeatherConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		lat:     cfg.Latitude,
		lon:     cfg.Longitude,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Day float64 `json:"day"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Rain    float64 `json:"rain"`
		Snow    float64 `json:"snow"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast fetches up to daysAhead days of daily weather. Temperatures come
// back in Kelvin and are converted to Fahrenheit; precipitation comes back in
// millimeters and is converted to inches.
func (c *Client) Forecast(ctx context.Context, daysAhead int) ([]domain.WeatherDay, error) {
	if daysAhead < 1 {
		return nil, fmt.Errorf("days_ahead must be >= 1: %w", domain.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("weather api key not configured: %w", domain.ErrExternalService)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.lat, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(c.lon, 'f', 4, 64))
	params.Set("cnt", strconv.Itoa(min(daysAhead, maxAPIDays)))
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", domain.ErrExternalService)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned %d: %w", resp.StatusCode, domain.ErrExternalService)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed weather response: %w", domain.ErrExternalService)
	}
	if len(payload.List) == 0 {
		return nil, fmt.Errorf("weather api returned no days: %w", domain.ErrExternalService)
	}

	days := make([]domain.WeatherDay, 0, daysAhead)
	for i, item := range payload.List {
		if i >= daysAhead {
			break
		}

		tempK := item.Temp.Day
		if tempK == 0 {
			tempK = item.Temp.Max
		}
		tempF := (tempK-273.15)*9/5 + 32
		precipIn := (item.Rain + item.Snow) / 25.4

		main := "Clear"
		if len(item.Weather) > 0 {
			main = item.Weather[0].Main
		}

		days = append(days, domain.WeatherDay{
			Day:           i + 1,
			Temperature:   math.Round(tempF*10) / 10,
			Precipitation: math.Round(precipIn*100) / 100,
			Description:   describe(main, tempF, precipIn),
		})
	}

	// The API caps at 16 days; pad longer requests with the last day.
	for len(days) < daysAhead {
		last := days[len(days)-1]
		last.Day = len(days) + 1
		days = append(days, last)
	}

	return days, nil
}

// describe builds the human-readable weather description from fixed
// temperature and precipitation categories.
func describe(weatherMain string, tempF, precipIn float64) string {
	var tempDesc string
	switch {
	case tempF >= 80:
		tempDesc = "Hot"
	case tempF >= 70:
		tempDesc = "Warm"
	case tempF >= 60:
		tempDesc = "Mild"
	case tempF >= 45:
		tempDesc = "Cool"
	default:
		tempDesc = "Cold"
	}

	var skyDesc string
	switch {
	case precipIn >= 1.0 && weatherMain == "Rain":
		skyDesc = "Heavy Rain"
	case precipIn >= 1.0:
		skyDesc = "Heavy Snow"
	case precipIn >= 0.3 && weatherMain == "Rain":
		skyDesc = "Rainy"
	case precipIn >= 0.3:
		skyDesc = "Snowy"
	case precipIn >= 0.1 && weatherMain == "Rain":
		skyDesc = "Light Rain"
	case precipIn >= 0.1:
		skyDesc = "Light Snow"
	case weatherMain == "Clouds" || weatherMain == "Overcast":
		skyDesc = "Cloudy"
	default:
		skyDesc = "Clear"
	}

	return tempDesc + " and " + skyDesc
}

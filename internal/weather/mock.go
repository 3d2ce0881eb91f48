package weather

import "github.com/wasteless-ai/backend-go/internal/domain"

// mockScenarios are the canonical fallback days. MockForecast cycles through
// them, so the fallback is fully deterministic for a given length.
var mockScenarios = []domain.WeatherDay{
	{Description: "Sunny and Hot", Temperature: 78, Precipitation: 0.0},
	{Description: "Warm and Clear", Temperature: 68, Precipitation: 0.0},
	{Description: "Cool and Rainy", Temperature: 45, Precipitation: 0.8},
	{Description: "Cold and Dry", Temperature: 32, Precipitation: 0.0},
	{Description: "Mild with Light Rain", Temperature: 55, Precipitation: 0.2},
	{Description: "Hot and Humid", Temperature: 82, Precipitation: 0.1},
	{Description: "Cold and Snowy", Temperature: 28, Precipitation: 1.2},
}

// MockForecast returns a deterministic daysAhead-day forecast, cycling through
// the canonical scenarios.
func MockForecast(daysAhead int) []domain.WeatherDay {
	if daysAhead < 1 {
		return nil
	}
	out := make([]domain.WeatherDay, daysAhead)
	for i := 0; i < daysAhead; i++ {
		day := mockScenarios[i%len(mockScenarios)]
		day.Day = i + 1
		out[i] = day
	}
	return out
}

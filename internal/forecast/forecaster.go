package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// Forecaster turns a product's trained model plus a weather sequence into a
// multi-day demand forecast.
type Forecaster struct {
	registry *Registry
}

func NewForecaster(registry *Registry) *Forecaster {
	return &Forecaster{registry: registry}
}

// BuildFutureFeatures creates one feature row per future day, starting the day
// after lastDate. Weekend flags derive from the calendar; holidays are always
// 0 (no holiday calendar is integrated). Weather maps element-wise: index i is
// future day i.
func BuildFutureFeatures(lastDate time.Time, weather []domain.WeatherDay) ([]FutureFeatures, error) {
	if len(weather) == 0 {
		return nil, fmt.Errorf("empty weather sequence: %w", domain.ErrInvalidInput)
	}

	features := make([]FutureFeatures, len(weather))
	for i, day := range weather {
		date := lastDate.AddDate(0, 0, i+1)
		weekend := 0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1
		}
		features[i] = FutureFeatures{
			Date:          date,
			IsWeekend:     weekend,
			IsHoliday:     0,
			Temperature:   day.Temperature,
			Precipitation: day.Precipitation,
		}
	}
	return features, nil
}

// Forecast predicts demand for daysAhead days after lastDate.
// weatherSource tags the provenance of the weather sequence ("live"/"mock")
// and is carried through to the result untouched.
func (f *Forecaster) Forecast(product string, lastDate time.Time, daysAhead int, weather []domain.WeatherDay, weatherSource string) (*domain.Forecast, error) {
	if daysAhead < 1 {
		return nil, fmt.Errorf("days_ahead must be >= 1: %w", domain.ErrInvalidInput)
	}
	if len(weather) < daysAhead {
		return nil, fmt.Errorf("weather sequence has %d days, need %d: %w",
			len(weather), daysAhead, domain.ErrInvalidInput)
	}

	model, err := f.registry.ModelFor(product)
	if err != nil {
		return nil, err
	}

	features, err := BuildFutureFeatures(lastDate, weather[:daysAhead])
	if err != nil {
		return nil, err
	}

	predictions, err := model.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("model predict for %s: %w", product, errPrediction(err))
	}
	if len(predictions) != len(features) {
		return nil, fmt.Errorf("model returned %d predictions for %d days: %w",
			len(predictions), len(features), domain.ErrPredictionFailed)
	}

	result := &domain.Forecast{
		Product:       product,
		ForecastDays:  daysAhead,
		WeatherSource: weatherSource,
		Predictions:   make([]domain.ForecastPoint, len(predictions)),
	}
	for i, p := range predictions {
		day := weather[i]
		result.Predictions[i] = domain.ForecastPoint{
			Date:            features[i].Date,
			DayOfWeek:       features[i].Date.Weekday().String(),
			PredictedDemand: round1(p.Yhat),
			LowerBound:      round1(p.YhatLower),
			UpperBound:      round1(p.YhatUpper),
			Temperature:     day.Temperature,
			Precipitation:   day.Precipitation,
			IsWeekend:       features[i].IsWeekend == 1,
		}
		result.TotalPredicted += p.Yhat
	}
	result.TotalPredicted = round1(result.TotalPredicted)

	return result, nil
}

// errPrediction keeps already-classified errors, wrapping everything else as
// a prediction failure.
func errPrediction(err error) error {
	if err == nil {
		return domain.ErrPredictionFailed
	}
	return fmt.Errorf("%v: %w", err, domain.ErrPredictionFailed)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

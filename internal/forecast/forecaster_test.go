package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/wasteless-ai/backend-go/internal/domain"
)

// friday is 2024-06-14, so future day 1 is Saturday and day 2 Sunday.
var friday = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

func flatWeather(days int) []domain.WeatherDay {
	out := make([]domain.WeatherDay, days)
	for i := range out {
		out[i] = domain.WeatherDay{Day: i + 1, Temperature: 65, Precipitation: 0}
	}
	return out
}

func TestBuildFutureFeatures(t *testing.T) {
	features, err := BuildFutureFeatures(friday, flatWeather(3))
	if err != nil {
		t.Fatal(err)
	}

	if len(features) != 3 {
		t.Fatalf("rows: got %d, want 3", len(features))
	}
	if !features[0].Date.Equal(friday.AddDate(0, 0, 1)) {
		t.Errorf("first day: got %v, want day after last date", features[0].Date)
	}
	if features[0].IsWeekend != 1 || features[1].IsWeekend != 1 {
		t.Error("saturday/sunday not flagged as weekend")
	}
	if features[2].IsWeekend != 0 {
		t.Error("monday flagged as weekend")
	}
	for _, f := range features {
		if f.IsHoliday != 0 {
			t.Error("holiday flag should always be 0")
		}
	}
}

func TestBuildFutureFeaturesEmptyWeather(t *testing.T) {
	_, err := BuildFutureFeatures(friday, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestRegressorModelPredict(t *testing.T) {
	model, err := NewRegressorModel(ModelParams{
		Product:       "Milk",
		Baseline:      20,
		WeekendCoef:   5,
		TempCoef:      0.5,
		TempMean:      60,
		IntervalWidth: 4,
	})
	if err != nil {
		t.Fatal(err)
	}

	preds, err := model.Predict([]FutureFeatures{
		{Date: friday.AddDate(0, 0, 1), IsWeekend: 1, Temperature: 70},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 20 + 5 (weekend) + 0.5 * (70-60) = 30
	if preds[0].Yhat != 30 {
		t.Errorf("yhat: got %v, want 30", preds[0].Yhat)
	}
	if preds[0].YhatLower != 26 || preds[0].YhatUpper != 34 {
		t.Errorf("bounds: got [%v, %v], want [26, 34]", preds[0].YhatLower, preds[0].YhatUpper)
	}
}

func TestRegressorModelClampsAtZero(t *testing.T) {
	model, _ := NewRegressorModel(ModelParams{Baseline: 2, PrecipCoef: -10, IntervalWidth: 1})

	preds, err := model.Predict([]FutureFeatures{{Date: friday, Precipitation: 5}})
	if err != nil {
		t.Fatal(err)
	}

	if preds[0].Yhat != 0 || preds[0].YhatLower != 0 {
		t.Errorf("negative demand not clamped: %+v", preds[0])
	}
}

func TestForecastCarriesWeatherSource(t *testing.T) {
	model, _ := NewRegressorModel(ModelParams{Baseline: 10})
	f := NewForecaster(NewRegistry(map[string]Model{"Milk": model}))

	fc, err := f.Forecast("Milk", friday, 2, flatWeather(2), "mock")
	if err != nil {
		t.Fatal(err)
	}

	if fc.WeatherSource != "mock" {
		t.Errorf("weather source: got %q, want mock", fc.WeatherSource)
	}
	if fc.ForecastDays != 2 || len(fc.Predictions) != 2 {
		t.Fatalf("unexpected forecast shape: %+v", fc)
	}
	if fc.TotalPredicted != 20 {
		t.Errorf("total: got %v, want 20", fc.TotalPredicted)
	}
	for _, p := range fc.Predictions {
		if p.LowerBound > p.PredictedDemand || p.PredictedDemand > p.UpperBound {
			t.Errorf("bounds do not bracket forecast: %+v", p)
		}
	}
}

func TestForecastUnknownProduct(t *testing.T) {
	f := NewForecaster(NewRegistry(nil))

	_, err := f.Forecast("Milk", friday, 2, flatWeather(2), "mock")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestForecastShortWeatherSequence(t *testing.T) {
	model, _ := NewRegressorModel(ModelParams{Baseline: 10})
	f := NewForecaster(NewRegistry(map[string]Model{"Milk": model}))

	_, err := f.Forecast("Milk", friday, 5, flatWeather(2), "mock")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

type failingModel struct{}

func (failingModel) Predict([]FutureFeatures) ([]Prediction, error) {
	return nil, errors.New("boom")
}

func TestForecastWrapsPredictError(t *testing.T) {
	f := NewForecaster(NewRegistry(map[string]Model{"Milk": failingModel{}}))

	_, err := f.Forecast("Milk", friday, 2, flatWeather(2), "live")
	if !errors.Is(err, domain.ErrPredictionFailed) {
		t.Fatalf("got %v, want ErrPredictionFailed", err)
	}
}

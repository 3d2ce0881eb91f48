// Package forecast wraps per-product trained demand models behind a
// deterministic predict contract and builds the future feature frames they
// consume. Training happens offline; this package only loads fitted
// parameters and predicts.
package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wasteless-ai/backend-go/internal/domain"
)

// FutureFeatures is one day of regressor inputs for a model.
type FutureFeatures struct {
	Date          time.Time `json:"date"`
	IsWeekend     int       `json:"is_weekend"`
	IsHoliday     int       `json:"is_holiday"`
	Temperature   float64   `json:"temperature"`
	Precipitation float64   `json:"precipitation"`
}

// Prediction is a single predicted day with its uncertainty band.
type Prediction struct {
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// Model is the opaque per-product predictor contract. Predict must be
// deterministic for identical inputs.
type Model interface {
	Predict(features []FutureFeatures) ([]Prediction, error)
}

// ModelParams are the fitted parameters of a regressor model, serialized to
// JSON by the offline training job (<product>_model.json).
type ModelParams struct {
	Product       string             `json:"product"`
	Baseline      float64            `json:"baseline"`
	WeekdayEffect map[string]float64 `json:"weekday_effect"`
	WeekendCoef   float64            `json:"weekend_coef"`
	HolidayCoef   float64            `json:"holiday_coef"`
	TempCoef      float64            `json:"temperature_coef"`
	TempMean      float64            `json:"temperature_mean"`
	PrecipCoef    float64            `json:"precipitation_coef"`
	IntervalWidth float64            `json:"interval_width"`
	TrainedAt     time.Time          `json:"trained_at"`
}

// RegressorModel implements Model from fitted ModelParams: a flat baseline
// plus weekly seasonality and weather/calendar regressors.
type RegressorModel struct {
	params ModelParams
}

func NewRegressorModel(params ModelParams) (*RegressorModel, error) {
	if params.IntervalWidth < 0 {
		return nil, fmt.Errorf("negative interval width: %w", domain.ErrInvalidInput)
	}
	return &RegressorModel{params: params}, nil
}

// Predict applies the fitted regression day by day. Predictions are clamped
// at zero demand; bounds always bracket the point forecast.
func (m *RegressorModel) Predict(features []FutureFeatures) ([]Prediction, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("empty feature frame: %w", domain.ErrPredictionFailed)
	}

	p := m.params
	out := make([]Prediction, len(features))
	for i, f := range features {
		yhat := p.Baseline
		yhat += p.WeekdayEffect[strings.ToLower(f.Date.Weekday().String())]
		yhat += p.WeekendCoef * float64(f.IsWeekend)
		yhat += p.HolidayCoef * float64(f.IsHoliday)
		yhat += p.TempCoef * (f.Temperature - p.TempMean)
		yhat += p.PrecipCoef * f.Precipitation
		yhat = math.Max(0, yhat)

		width := p.IntervalWidth
		if width == 0 {
			width = 0.15 * yhat
		}
		out[i] = Prediction{
			Yhat:      yhat,
			YhatLower: math.Max(0, yhat-width),
			YhatUpper: yhat + width,
		}
	}
	return out, nil
}

// Registry is the immutable product → model lookup table, built once at
// startup. If models change on disk, rebuild the registry; there is no lazy
// reload.
type Registry struct {
	models map[string]Model
}

func NewRegistry(models map[string]Model) *Registry {
	copied := make(map[string]Model, len(models))
	for k, v := range models {
		copied[k] = v
	}
	return &Registry{models: copied}
}

// LoadRegistry reads every <product>_model.json under dir.
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read models dir: %w", err)
	}

	models := make(map[string]Model)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_model.json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("failed to read model file")
			continue
		}

		var params ModelParams
		if err := json.Unmarshal(raw, &params); err != nil {
			log.Error().Err(err).Str("file", name).Msg("failed to decode model file")
			continue
		}
		if params.Product == "" {
			params.Product = strings.ReplaceAll(strings.TrimSuffix(name, "_model.json"), "_", " ")
		}

		model, err := NewRegressorModel(params)
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("invalid model parameters")
			continue
		}
		models[params.Product] = model
	}

	log.Info().Int("models", len(models)).Str("dir", dir).Msg("loaded model registry")
	return NewRegistry(models), nil
}

// ModelFor returns the trained model for a product.
// domain.ErrNotFound when no model was trained for it.
func (r *Registry) ModelFor(product string) (Model, error) {
	m, ok := r.models[product]
	if !ok {
		return nil, fmt.Errorf("no trained model for %s: %w", product, domain.ErrNotFound)
	}
	return m, nil
}

// Products lists the products with a trained model.
func (r *Registry) Products() []string {
	out := make([]string, 0, len(r.models))
	for p := range r.models {
		out = append(out, p)
	}
	return out
}

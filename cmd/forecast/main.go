// cmd/forecast runs a batch demand forecast for every product in the dataset
// and writes the results to predictions.csv.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wasteless-ai/backend-go/internal/dataset"
	"github.com/wasteless-ai/backend-go/internal/domain"
	"github.com/wasteless-ai/backend-go/internal/forecast"
	"github.com/wasteless-ai/backend-go/internal/weather"
	"github.com/wasteless-ai/backend-go/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Generate batch demand forecasts for all products",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sales",
				Usage:   "Path to the daily sales CSV",
				Value:   "data/daily_sales_dataset.csv",
				EnvVars: []string{"DATASET_SALES_FILE"},
			},
			&cli.StringFlag{
				Name:    "models",
				Usage:   "Directory holding fitted model parameter files",
				Value:   "models",
				EnvVars: []string{"DATASET_MODELS_DIR"},
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output CSV path",
				Value: "predictions.csv",
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Forecast horizon in days",
				Value: 7,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Products forecast in parallel",
				Value: 4,
			},
		},
		Action: runBatch,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("batch forecast failed")
	}
}

func runBatch(c *cli.Context) error {
	store, err := dataset.Open(c.String("sales"), "")
	if err != nil {
		return err
	}

	registry, err := forecast.LoadRegistry(c.String("models"))
	if err != nil {
		return err
	}
	forecaster := forecast.NewForecaster(registry)

	products, err := store.Products(c.Context)
	if err != nil {
		return err
	}

	daysAhead := c.Int("days")
	weatherDays := weather.MockForecast(daysAhead)

	var (
		mu        sync.Mutex
		forecasts []*domain.Forecast
	)

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(c.Int("concurrency"))

	for _, product := range products {
		g.Go(func() error {
			latest, err := store.Latest(ctx, product)
			if err != nil {
				return err
			}

			fc, err := forecaster.Forecast(product, latest.Date, daysAhead, weatherDays, weather.SourceMock)
			if err != nil {
				logger.Log.Warn().Err(err).Str("product", product).Msg("skipping product")
				return nil
			}

			mu.Lock()
			forecasts = append(forecasts, fc)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := writePredictions(c.String("out"), forecasts); err != nil {
		return err
	}

	logger.Log.Info().Int("products", len(forecasts)).Str("out", c.String("out")).
		Msg("batch forecast complete")
	return nil
}

func writePredictions(path string, forecasts []*domain.Forecast) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "product", "predicted_demand", "lower_bound", "upper_bound"}); err != nil {
		return err
	}

	for _, fc := range forecasts {
		for _, p := range fc.Predictions {
			row := []string{
				p.Date.Format(dateLayout),
				fc.Product,
				strconv.FormatFloat(p.PredictedDemand, 'f', 1, 64),
				strconv.FormatFloat(p.LowerBound, 'f', 1, 64),
				strconv.FormatFloat(p.UpperBound, 'f', 1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

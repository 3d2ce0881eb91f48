// cmd/seed loads the dataset CSVs into Postgres, optionally fetching them
// from object storage first.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/wasteless-ai/backend-go/internal/config"
	"github.com/wasteless-ai/backend-go/internal/dataset"
	"github.com/wasteless-ai/backend-go/internal/ingest"
	"github.com/wasteless-ai/backend-go/internal/repository/postgres"
	"github.com/wasteless-ai/backend-go/internal/storage"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.Open(c.String("db-url"))
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func contextDB(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with dataset CSVs",
		Commands: []*cli.Command{
			{
				Name:  "sales",
				Usage: "Seed daily sales records from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the daily sales CSV",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedSales,
			},
			{
				Name:  "inventory",
				Usage: "Seed inventory batches from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the inventory batch CSV",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedInventory,
			},
			{
				Name:  "fetch",
				Usage: "Download dataset objects from object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object name prefix to download",
						Value: "data/",
					},
					&cli.StringFlag{
						Name:  "dest",
						Usage: "Local directory to download into",
						Value: "data",
					},
				},
				Action: fetchObjects,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedSales(c *cli.Context) error {
	db, err := contextDB(c)
	if err != nil {
		return err
	}

	records, err := dataset.LoadSales(c.String("file"))
	if err != nil {
		return err
	}

	if err := ingest.NewRepository(db).UpsertSalesRecords(c.Context, records); err != nil {
		return err
	}

	log.Printf("seeded %d sales records", len(records))
	return nil
}

func seedInventory(c *cli.Context) error {
	db, err := contextDB(c)
	if err != nil {
		return err
	}

	batches, err := dataset.LoadInventory(c.String("file"))
	if err != nil {
		return err
	}

	if err := ingest.NewRepository(db).UpsertInventoryBatches(c.Context, batches); err != nil {
		return err
	}

	log.Printf("seeded %d inventory batches", len(batches))
	return nil
}

func fetchObjects(c *cli.Context) error {
	cfg := config.Load()

	store, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return err
	}

	names, err := store.List(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}

	dest := c.String("dest")
	for _, name := range names {
		local := filepath.Join(dest, filepath.Base(name))
		if err := store.Download(c.Context, name, local); err != nil {
			return err
		}
		log.Printf("downloaded %s -> %s", name, local)
	}

	if len(names) == 0 {
		log.Printf("no objects found under prefix %q", c.String("prefix"))
	}
	return nil
}

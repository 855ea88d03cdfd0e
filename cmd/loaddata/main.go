// Package main seeds the ingredient and tag catalogs from JSON files.
//
//	loaddata ingredients data/ingredients.json
//	loaddata tags data/tags.json
//
// Rows already present are skipped, so the command can be rerun.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/foodgram/internal/app"
	"github.com/jsamuelsen/foodgram/internal/bootstrap"
	"github.com/jsamuelsen/foodgram/internal/domain"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var profile string

	root := &cobra.Command{
		Use:          "loaddata",
		Short:        "Seed the foodgram catalog from JSON files",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&profile, "profile", envOr("APP_ENVIRONMENT", "local"), "config profile to load")

	root.AddCommand(
		&cobra.Command{
			Use:   "ingredients FILE",
			Short: "Import ingredients ([{name, measurement_unit}])",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd.Context(), profile, func(ctx context.Context, catalog *app.CatalogService) (int64, error) {
					records, err := readJSON[ingredientRecord](args[0])
					if err != nil {
						return 0, err
					}

					items := make([]domain.Ingredient, len(records))
					for i, r := range records {
						items[i] = domain.Ingredient{Name: r.Name, MeasurementUnit: r.MeasurementUnit}
					}

					return catalog.ImportIngredients(ctx, items)
				})
			},
		},
		&cobra.Command{
			Use:   "tags FILE",
			Short: "Import tags ([{name, color, slug}])",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd.Context(), profile, func(ctx context.Context, catalog *app.CatalogService) (int64, error) {
					records, err := readJSON[tagRecord](args[0])
					if err != nil {
						return 0, err
					}

					tags := make([]domain.Tag, len(records))
					for i, r := range records {
						tags[i] = domain.Tag{Name: r.Name, Color: r.Color, Slug: r.Slug}
					}

					return catalog.ImportTags(ctx, tags)
				})
			},
		},
	)

	return root
}

// withCatalog opens the configured database, runs load against the catalog
// service and logs how many rows were inserted.
func withCatalog(
	ctx context.Context,
	profile string,
	load func(context.Context, *app.CatalogService) (int64, error),
) error {
	cfg, err := bootstrap.LoadConfig(profile)
	if err != nil {
		return err
	}

	logger := bootstrap.NewLogger(cfg, "loaddata")

	db, err := bootstrap.OpenDatabase(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	defer bootstrap.CloseDatabase(db) //nolint:errcheck // process is exiting

	catalog := app.NewCatalogService(bootstrap.Repositories(db, logger), nil, nil, &app.CatalogConfig{
		ServiceConfig: app.ServiceConfig{Logger: logger},
	})

	inserted, err := load(ctx, catalog)
	if err != nil {
		logger.ErrorContext(ctx, "import failed", slog.Any("error", err))
		return err
	}

	logger.InfoContext(ctx, "import finished", slog.Int64("inserted", inserted))

	return nil
}

func readJSON[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

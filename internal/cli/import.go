package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/repository"
	"github.com/foodgram/backend/internal/service"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load reference data from fixture files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ingredients <file.json>",
		Short: "Import ingredients from a JSON array of {name, measurement_unit}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0], func(ctx context.Context, imp *service.Importer, r io.Reader) (service.ImportStats, error) {
				records, err := ReadIngredientRecords(r)
				if err != nil {
					return service.ImportStats{}, err
				}
				return imp.ImportIngredients(ctx, records)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tags <file.yaml>",
		Short: "Import tags from a YAML list of {name, color, slug}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0], func(ctx context.Context, imp *service.Importer, r io.Reader) (service.ImportStats, error) {
				records, err := ReadTagRecords(r)
				if err != nil {
					return service.ImportStats{}, err
				}
				return imp.ImportTags(ctx, records)
			})
		},
	})
	return cmd
}

type importFunc func(ctx context.Context, imp *service.Importer, r io.Reader) (service.ImportStats, error)

func runImport(ctx context.Context, out io.Writer, path string, run importFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := database.RunMigrations(a.db, a.cfg, a.log); err != nil {
		return err
	}

	importer := service.NewImporter(repository.NewGormStore(a.db), metrics.Nop{}, a.log)
	stats, err := run(ctx, importer, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %d, existing %d, skipped %d\n", stats.Created, stats.Existing, stats.Skipped)
	return nil
}

// ReadIngredientRecords decodes a JSON array of ingredients
func ReadIngredientRecords(r io.Reader) ([]service.IngredientRecord, error) {
	var records []service.IngredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return records, nil
}

// ReadTagRecords decodes a YAML list of tags
func ReadTagRecords(r io.Reader) ([]service.TagRecord, error) {
	var records []service.TagRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return records, nil
}

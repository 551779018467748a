package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
)

// IngredientRecord is one row of an ingredient fixture file
type IngredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// TagRecord is one row of a tag fixture file
type TagRecord struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Slug  string `yaml:"slug"`
}

// ImportStats counts the outcome of an import run
type ImportStats struct {
	Created  int
	Existing int
	Skipped  int
}

var (
	hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugRe   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Importer loads reference data with get-or-create semantics, so running
// it twice is harmless.
type Importer struct {
	store   repository.Store
	metrics metrics.Recorder
	log     *slog.Logger
}

func NewImporter(store repository.Store, recorder metrics.Recorder, log *slog.Logger) *Importer {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Importer{store: store, metrics: recorder, log: log}
}

// ImportIngredients creates missing measurement units and ingredients.
// Rows without a name or unit are skipped.
func (i *Importer) ImportIngredients(ctx context.Context, records []IngredientRecord) (ImportStats, error) {
	var stats ImportStats
	err := i.store.WithTx(ctx, func(tx repository.Store) error {
		for n, rec := range records {
			name := strings.TrimSpace(rec.Name)
			unitName := strings.TrimSpace(rec.MeasurementUnit)
			if name == "" || unitName == "" {
				i.log.Warn("skipping ingredient row with missing fields", slog.Int("row", n))
				stats.Skipped++
				continue
			}

			unit, _, err := tx.FirstOrCreateUnit(ctx, unitName)
			if err != nil {
				return fmt.Errorf("row %d: unit %q: %w", n, unitName, err)
			}
			_, created, err := tx.FirstOrCreateIngredient(ctx, name, unit.ID)
			if err != nil {
				return fmt.Errorf("row %d: ingredient %q: %w", n, name, err)
			}
			if created {
				stats.Created++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("import ingredients: %w", err)
	}

	i.metrics.RecordImport("ingredients", stats.Created, stats.Existing, stats.Skipped)
	i.log.Info("ingredients imported",
		slog.Int("created", stats.Created),
		slog.Int("existing", stats.Existing),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// ImportTags creates missing tags, matched by slug. Rows with an invalid
// color or slug are skipped.
func (i *Importer) ImportTags(ctx context.Context, records []TagRecord) (ImportStats, error) {
	var stats ImportStats
	err := i.store.WithTx(ctx, func(tx repository.Store) error {
		for n, rec := range records {
			tag := models.Tag{
				Name:  strings.TrimSpace(rec.Name),
				Color: strings.ToUpper(strings.TrimSpace(rec.Color)),
				Slug:  strings.TrimSpace(rec.Slug),
			}
			if tag.Name == "" || !hexColor.MatchString(tag.Color) || !slugRe.MatchString(tag.Slug) {
				i.log.Warn("skipping invalid tag row", slog.Int("row", n), slog.String("slug", tag.Slug))
				stats.Skipped++
				continue
			}
			created, err := tx.FirstOrCreateTag(ctx, &tag)
			if err != nil {
				return fmt.Errorf("row %d: tag %q: %w", n, tag.Slug, err)
			}
			if created {
				stats.Created++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("import tags: %w", err)
	}

	i.metrics.RecordImport("tags", stats.Created, stats.Existing, stats.Skipped)
	i.log.Info("tags imported",
		slog.Int("created", stats.Created),
		slog.Int("existing", stats.Existing),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// Package seed loads the reference disease catalogue.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

type DiseaseStore interface {
	GetDiseaseByName(ctx context.Context, name string) (*models.Disease, error)
	CreateDisease(ctx context.Context, disease *models.Disease) error
}

// Result counts what a run did.
type Result struct {
	Created int
	Skipped int
	Failed  int
}

// Diseases inserts each reference disease that is not already present by name.
// A failure on one disease is logged and the rest are still attempted.
func Diseases(ctx context.Context, store DiseaseStore, log zerolog.Logger) Result {
	var res Result
	for _, d := range Catalogue() {
		d := d
		_, err := store.GetDiseaseByName(ctx, d.Name)
		switch {
		case err == nil:
			log.Info().Str("disease", d.Name).Msg("disease already exists")
			res.Skipped++
			continue
		case !errors.Is(err, apperr.ErrNotFound):
			log.Error().Err(err).Str("disease", d.Name).Msg("lookup failed")
			res.Failed++
			continue
		}

		if err := store.CreateDisease(ctx, &d); err != nil {
			log.Error().Err(err).Str("disease", d.Name).Msg("create failed")
			res.Failed++
			continue
		}
		log.Info().Str("disease", d.Name).Msg("created disease")
		res.Created++
	}
	log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Int("failed", res.Failed).Msg("disease seeding complete")
	return res
}

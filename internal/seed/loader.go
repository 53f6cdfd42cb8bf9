package seed

import (
	"context"
	"fmt"
	"log/slog"

	"pokemon-map/internal/pokemon"
	"pokemon-map/internal/shared/database"
	"pokemon-map/internal/shared/errors"
	"pokemon-map/internal/sighting"
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *database.Tx) error) error
}

type SpeciesWriter interface {
	Upsert(ctx context.Context, req pokemon.CreateRequest, tx *database.Tx) (int, error)
	SetPreviousEvolution(ctx context.Context, id int, previousID *int, tx *database.Tx) error
}

type ElementWriter interface {
	Upsert(ctx context.Context, title string, image *string, tx *database.Tx) (int, error)
	AddStrongAgainst(ctx context.Context, fromID, toID int, tx *database.Tx) error
	AttachToPokemon(ctx context.Context, pokemonID, elementTypeID int, tx *database.Tx) error
}

type SightingWriter interface {
	Create(ctx context.Context, req sighting.CreateRequest, tx *database.Tx) (int, error)
	DeleteByPokemon(ctx context.Context, pokemonID int, tx *database.Tx) (int64, error)
}

type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

type Result struct {
	ElementTypes int
	Pokemons     int
	Sightings    int
}

type Loader struct {
	tx        TxRunner
	species   SpeciesWriter
	elements  ElementWriter
	sightings SightingWriter
	catalog   CatalogInvalidator
	logger    *slog.Logger
}

func NewLoader(tx TxRunner, species SpeciesWriter, elements ElementWriter, sightings SightingWriter, catalog CatalogInvalidator, logger *slog.Logger) *Loader {
	return &Loader{
		tx:        tx,
		species:   species,
		elements:  elements,
		sightings: sightings,
		catalog:   catalog,
		logger:    logger,
	}
}

// Load writes the fixture in a single transaction. Species and element
// types are upserted by title; the sightings of every species named in the
// fixture are replaced, so loading the same file twice is idempotent.
func (l *Loader) Load(ctx context.Context, fixture *Fixture) (Result, error) {
	logger := l.logger.With("component", "seed", "operation", "load")

	if err := fixture.Validate(); err != nil {
		return Result{}, err
	}
	logger.Debug("Loading fixture",
		"element_types", len(fixture.ElementTypes),
		"pokemons", len(fixture.Pokemons),
		"sightings", fixture.sightingCount(),
	)

	var result Result
	err := l.tx.WithTx(ctx, func(tx *database.Tx) error {
		elementIDs, err := l.loadElementTypes(ctx, fixture.ElementTypes, tx)
		if err != nil {
			return err
		}

		speciesIDs := make(map[string]int, len(fixture.Pokemons))
		for _, p := range fixture.Pokemons {
			id, err := l.species.Upsert(ctx, pokemon.CreateRequest{
				Title:       p.Title,
				TitleEn:     p.TitleEn,
				TitleJp:     p.TitleJp,
				Description: p.Description,
				Image:       p.Image,
			}, tx)
			if err != nil {
				return err
			}
			speciesIDs[p.Title] = id

			for _, et := range p.ElementTypes {
				elementID, err := lookup(elementIDs, "element type", et)
				if err != nil {
					return err
				}
				if err := l.elements.AttachToPokemon(ctx, id, elementID, tx); err != nil {
					return err
				}
			}
		}

		// Evolutions reference other species, so they go in a second pass
		for _, p := range fixture.Pokemons {
			var previous *int
			if p.PreviousEvolution != "" {
				prevID, err := lookup(speciesIDs, "pokemon", p.PreviousEvolution)
				if err != nil {
					return err
				}
				previous = &prevID
			}
			if err := l.species.SetPreviousEvolution(ctx, speciesIDs[p.Title], previous, tx); err != nil {
				return err
			}
		}

		for _, p := range fixture.Pokemons {
			id := speciesIDs[p.Title]
			removed, err := l.sightings.DeleteByPokemon(ctx, id, tx)
			if err != nil {
				return err
			}
			if removed > 0 {
				logger.Debug("Replaced existing sightings", "pokemon", p.Title, "removed", removed)
			}

			for _, s := range p.Sightings {
				if _, err := l.sightings.Create(ctx, sighting.CreateRequest{
					PokemonID:   id,
					Latitude:    s.Lat,
					Longitude:   s.Lon,
					AppearAt:    s.AppearAt,
					DisappearAt: s.DisappearAt,
					Stats: sighting.Stats{
						Level:    s.Level,
						Health:   s.Health,
						Strength: s.Strength,
						Defence:  s.Defence,
						Stamina:  s.Stamina,
					},
				}, tx); err != nil {
					return err
				}
				result.Sightings++
			}
		}

		result.ElementTypes = len(elementIDs)
		result.Pokemons = len(speciesIDs)
		return nil
	})
	if err != nil {
		logger.Error("Seeding failed, transaction rolled back", "error", err)
		return Result{}, fmt.Errorf("failed to load fixture: %w", err)
	}

	if l.catalog != nil {
		if err := l.catalog.InvalidateCatalog(ctx); err != nil {
			logger.Warn("Failed to invalidate species catalog cache", "error", err)
		}
	}

	logger.Info("Fixture loaded",
		"element_types", result.ElementTypes,
		"pokemons", result.Pokemons,
		"sightings", result.Sightings,
	)
	return result, nil
}

func (l *Loader) loadElementTypes(ctx context.Context, types []ElementTypeFixture, tx *database.Tx) (map[string]int, error) {
	ids := make(map[string]int, len(types))
	for _, et := range types {
		id, err := l.elements.Upsert(ctx, et.Title, et.Image, tx)
		if err != nil {
			return nil, err
		}
		ids[et.Title] = id
	}

	for _, et := range types {
		for _, target := range et.StrongAgainst {
			targetID, err := lookup(ids, "element type", target)
			if err != nil {
				return nil, err
			}
			if err := l.elements.AddStrongAgainst(ctx, ids[et.Title], targetID, tx); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

// lookup refuses to fall back to id 0 for a title the fixture never wrote.
func lookup(ids map[string]int, kind, title string) (int, error) {
	id, ok := ids[title]
	if !ok {
		return 0, errors.Validationf("%s %q was not loaded", kind, title)
	}
	return id, nil
}

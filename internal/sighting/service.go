package sighting

import (
	"context"
	"log/slog"
	"time"

	"pokemon-map/internal/shared/errors"
)

type Store interface {
	ListVisible(ctx context.Context, at time.Time) ([]Sighting, error)
	ListVisibleByPokemon(ctx context.Context, pokemonID int, at time.Time) ([]Sighting, error)
}

type Service struct {
	repo   Store
	logger *slog.Logger
}

func NewService(repo Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing sighting service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListVisible returns the sightings on the map at the given instant.
func (s *Service) ListVisible(ctx context.Context, at time.Time) ([]Sighting, error) {
	sightings, err := s.repo.ListVisible(ctx, at)
	if err != nil {
		return nil, errors.WrapInternal("failed to list visible sightings", err)
	}
	return nonNil(sightings), nil
}

// ListVisibleBySpecies returns one species' sightings on the map at the
// given instant.
func (s *Service) ListVisibleBySpecies(ctx context.Context, pokemonID int, at time.Time) ([]Sighting, error) {
	sightings, err := s.repo.ListVisibleByPokemon(ctx, pokemonID, at)
	if err != nil {
		return nil, errors.WrapInternal("failed to list visible sightings of pokemon", err)
	}
	return nonNil(sightings), nil
}

func nonNil(sightings []Sighting) []Sighting {
	if sightings == nil {
		return []Sighting{}
	}
	return sightings
}

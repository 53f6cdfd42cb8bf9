package pokemon

import (
	"context"
	"fmt"
	"log/slog"

	"pokemon-map/internal/element"
	"pokemon-map/internal/shared/errors"

	"github.com/samber/lo"
)

type Store interface {
	ListPokemons(ctx context.Context) ([]Pokemon, error)
	GetPokemonByID(ctx context.Context, id int) (*Pokemon, error)
	GetNextEvolution(ctx context.Context, id int) (*Pokemon, error)
}

type ElementStore interface {
	ListByPokemonID(ctx context.Context, pokemonID int) ([]element.ElementType, error)
}

// ImageURLFunc turns a stored media path into a URL for the page.
type ImageURLFunc func(path string) string

type Service struct {
	repo     Store
	elements ElementStore
	cache    CatalogCache
	imageURL ImageURLFunc
	logger   *slog.Logger
}

func NewService(repo Store, elements ElementStore, cache CatalogCache, imageURL ImageURLFunc, logger *slog.Logger) *Service {
	logger.Debug("Initializing pokemon service")

	if cache == nil {
		cache = noopCatalogCache{}
	}

	return &Service{
		repo:     repo,
		elements: elements,
		cache:    cache,
		imageURL: imageURL,
		logger:   logger,
	}
}

// ListSpecies returns every species as a sidebar summary, ordered by id.
// Cache failures degrade to a database read.
func (s *Service) ListSpecies(ctx context.Context) ([]Summary, error) {
	logger := s.logger.With("component", "pokemon_service", "operation", "list_species")

	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		logger.Warn("Catalog cache read failed", "error", err)
	}
	if ok {
		logger.Debug("Catalog served from cache", "count", len(cached))
		return cached, nil
	}

	pokemons, err := s.repo.ListPokemons(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list pokemons", err)
	}

	summaries := lo.Map(pokemons, func(p Pokemon, _ int) Summary { return s.summarize(&p) })

	if err := s.cache.Set(ctx, summaries); err != nil {
		logger.Warn("Catalog cache write failed", "error", err)
	}

	logger.Debug("Catalog loaded", "count", len(summaries))
	return summaries, nil
}

// InvalidateCatalog drops the cached sidebar after species change.
func (s *Service) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

// GetDetail assembles the species page: the record, both evolution
// neighbours and the element types with their strong-against sets.
func (s *Service) GetDetail(ctx context.Context, id int) (*Detail, error) {
	logger := s.logger.With("component", "pokemon_service", "operation", "get_detail", "pokemon_id", id)

	if id <= 0 {
		return nil, errors.NotFoundf("pokemon %d not found", id)
	}

	p, err := s.repo.GetPokemonByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		PokemonID:   p.ID,
		TitleRu:     p.Title,
		TitleEn:     deref(p.TitleEn),
		TitleJp:     deref(p.TitleJp),
		Description: deref(p.Description),
		Image:       deref(p.Image),
		ImgURL:      s.imageURLOf(p.Image),
	}

	if p.PreviousEvolutionID != nil {
		previous, err := s.repo.GetPokemonByID(ctx, *p.PreviousEvolutionID)
		switch {
		case errors.IsNotFound(err):
			// ON DELETE SET NULL makes this a race with a concurrent delete.
			logger.Warn("Previous evolution vanished", "previous_id", *p.PreviousEvolutionID)
		case err != nil:
			return nil, errors.WrapInternal("failed to load previous evolution", err)
		default:
			summary := s.summarize(previous)
			detail.PreviousEvolution = &summary
		}
	}

	next, err := s.repo.GetNextEvolution(ctx, p.ID)
	if err != nil {
		return nil, errors.WrapInternal("failed to load next evolution", err)
	}
	if next != nil {
		summary := s.summarize(next)
		detail.NextEvolution = &summary
	}

	types, err := s.elements.ListByPokemonID(ctx, p.ID)
	if err != nil {
		return nil, errors.WrapInternal(fmt.Sprintf("failed to load element types of pokemon %d", p.ID), err)
	}
	detail.ElementTypes = lo.Map(types, func(et element.ElementType, _ int) ElementTypeView {
		return viewOfElementType(et, s.imageURL)
	})

	logger.Debug("Pokemon detail assembled",
		"has_previous", detail.PreviousEvolution != nil,
		"has_next", detail.NextEvolution != nil,
		"element_types", len(detail.ElementTypes))

	return detail, nil
}

func (s *Service) summarize(p *Pokemon) Summary {
	return Summary{
		PokemonID: p.ID,
		ImgURL:    s.imageURLOf(p.Image),
		TitleRu:   p.Title,
	}
}

func (s *Service) imageURLOf(path *string) string {
	if path == nil {
		return ""
	}
	return s.imageURL(*path)
}

package pokemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"pokemon-map/internal/element"
	apperrors "pokemon-map/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pokemons map[int]Pokemon
	listErr  error
	calls    int
}

func newFakeStore(pokemons ...Pokemon) *fakeStore {
	s := &fakeStore{pokemons: map[int]Pokemon{}}
	for _, p := range pokemons {
		s.pokemons[p.ID] = p
	}
	return s
}

func (s *fakeStore) ListPokemons(ctx context.Context) ([]Pokemon, error) {
	s.calls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Pokemon, 0, len(s.pokemons))
	for _, p := range s.pokemons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetPokemonByID(ctx context.Context, id int) (*Pokemon, error) {
	p, ok := s.pokemons[id]
	if !ok {
		return nil, apperrors.NotFoundf("pokemon %d not found", id)
	}
	return &p, nil
}

func (s *fakeStore) GetNextEvolution(ctx context.Context, id int) (*Pokemon, error) {
	var next *Pokemon
	for _, p := range s.pokemons {
		if p.PreviousEvolutionID != nil && *p.PreviousEvolutionID == id {
			if next == nil || p.ID < next.ID {
				candidate := p
				next = &candidate
			}
		}
	}
	return next, nil
}

type fakeElements map[int][]element.ElementType

func (f fakeElements) ListByPokemonID(ctx context.Context, pokemonID int) ([]element.ElementType, error) {
	return f[pokemonID], nil
}

type memoryCache struct {
	entries []Summary
	hit     bool
	getErr  error
}

func (c *memoryCache) Get(context.Context) ([]Summary, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.entries, c.hit, nil
}

func (c *memoryCache) Set(_ context.Context, summaries []Summary) error {
	c.entries, c.hit = summaries, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.entries, c.hit = nil, false
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func mediaURL(path string) string { return "/media/" + path }

func ptr[T any](v T) *T { return &v }

func weedleFamily() (*fakeStore, fakeElements) {
	store := newFakeStore(
		Pokemon{ID: 1, Title: "Weedle", TitleEn: ptr("Weedle"), TitleJp: ptr("Bīdoru"), Image: ptr("weedle.png")},
		Pokemon{ID: 2, Title: "Kakuna", PreviousEvolutionID: ptr(1), Image: ptr("kakuna.png")},
		Pokemon{ID: 3, Title: "Beedrill", PreviousEvolutionID: ptr(2)},
		Pokemon{ID: 4, Title: "Pikachu", Description: ptr("Electric mouse")},
	)
	elements := fakeElements{
		1: {
			{ID: 10, Title: "Bug", Image: ptr("bug.svg"), StrongAgainst: []string{"Grass", "Psychic"}},
			{ID: 11, Title: "Poison"},
		},
	}
	return store, elements
}

func TestGetDetailEvolutionChain(t *testing.T) {
	store, elements := weedleFamily()
	svc := NewService(store, elements, nil, mediaURL, discard)
	ctx := context.Background()

	kakuna, err := svc.GetDetail(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, kakuna.PreviousEvolution)
	assert.Equal(t, "Weedle", kakuna.PreviousEvolution.TitleRu)
	assert.Equal(t, 1, kakuna.PreviousEvolution.PokemonID)
	assert.Equal(t, "/media/weedle.png", kakuna.PreviousEvolution.ImgURL)
	require.NotNil(t, kakuna.NextEvolution)
	assert.Equal(t, 3, kakuna.NextEvolution.PokemonID)

	weedle, err := svc.GetDetail(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, weedle.PreviousEvolution)
	require.NotNil(t, weedle.NextEvolution)
	assert.Equal(t, kakuna.PokemonID, weedle.NextEvolution.PokemonID)
	assert.Equal(t, "/media/kakuna.png", weedle.NextEvolution.ImgURL)

	beedrill, err := svc.GetDetail(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, beedrill.NextEvolution)
	assert.Equal(t, "", beedrill.ImgURL)
}

func TestGetDetailFirstSuccessorWins(t *testing.T) {
	store := newFakeStore(
		Pokemon{ID: 1, Title: "Eevee"},
		Pokemon{ID: 7, Title: "Jolteon", PreviousEvolutionID: ptr(1)},
		Pokemon{ID: 5, Title: "Vaporeon", PreviousEvolutionID: ptr(1)},
	)
	svc := NewService(store, fakeElements{}, nil, mediaURL, discard)

	detail, err := svc.GetDetail(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, detail.NextEvolution)
	assert.Equal(t, 5, detail.NextEvolution.PokemonID)
}

func TestGetDetailFields(t *testing.T) {
	store, elements := weedleFamily()
	svc := NewService(store, elements, nil, mediaURL, discard)

	detail, err := svc.GetDetail(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Weedle", detail.TitleRu)
	assert.Equal(t, "Weedle", detail.TitleEn)
	assert.Equal(t, "Bīdoru", detail.TitleJp)
	assert.Equal(t, "/media/weedle.png", detail.ImgURL)
	require.Len(t, detail.ElementTypes, 2)
	assert.Equal(t, ElementTypeView{Title: "Bug", Img: "/media/bug.svg", StrongAgainst: []string{"Grass", "Psychic"}}, detail.ElementTypes[0])
	assert.Equal(t, ElementTypeView{Title: "Poison", StrongAgainst: []string{}}, detail.ElementTypes[1])

	pikachu, err := svc.GetDetail(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Electric mouse", pikachu.Description)
	assert.Empty(t, pikachu.ElementTypes)
}

func TestGetDetailUnknownID(t *testing.T) {
	store, elements := weedleFamily()
	svc := NewService(store, elements, nil, mediaURL, discard)

	for _, id := range []int{0, -3, 999} {
		t.Run(fmt.Sprint(id), func(t *testing.T) {
			_, err := svc.GetDetail(context.Background(), id)
			require.Error(t, err)
			assert.True(t, apperrors.IsNotFound(err))
		})
	}
}

func TestGetDetailDanglingPreviousEvolution(t *testing.T) {
	store := newFakeStore(Pokemon{ID: 2, Title: "Kakuna", PreviousEvolutionID: ptr(1)})
	svc := NewService(store, fakeElements{}, nil, mediaURL, discard)

	detail, err := svc.GetDetail(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, detail.PreviousEvolution)
}

func TestListSpeciesUsesCache(t *testing.T) {
	store, elements := weedleFamily()
	cache := &memoryCache{}
	svc := NewService(store, elements, cache, mediaURL, discard)
	ctx := context.Background()

	first, err := svc.ListSpecies(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, Summary{PokemonID: 1, ImgURL: "/media/weedle.png", TitleRu: "Weedle"}, first[0])
	assert.Equal(t, Summary{PokemonID: 4, ImgURL: "", TitleRu: "Pikachu"}, first[3])

	second, err := svc.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls)

	require.NoError(t, svc.InvalidateCatalog(ctx))
	_, err = svc.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestListSpeciesCacheErrorFallsBack(t *testing.T) {
	store, elements := weedleFamily()
	svc := NewService(store, elements, &memoryCache{getErr: errors.New("redis down")}, mediaURL, discard)

	summaries, err := svc.ListSpecies(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 4)
}

func TestListSpeciesStoreError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	svc := NewService(store, fakeElements{}, nil, mediaURL, discard)

	_, err := svc.ListSpecies(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetType(err))
}

func TestListSpeciesEmpty(t *testing.T) {
	svc := NewService(newFakeStore(), fakeElements{}, nil, mediaURL, discard)

	summaries, err := svc.ListSpecies(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

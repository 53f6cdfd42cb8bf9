package render

import (
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"pokemon-map/internal/shared/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type summary struct {
	PokemonID int
	ImgURL    string
	TitleRu   string
}

func TestMainPage(t *testing.T) {
	rn, err := New(discard)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	err = rn.HTML(rec, r, http.StatusOK, "mainpage", struct {
		Map      template.HTML
		Pokemons []summary
	}{
		Map: template.HTML(`<div id="pokemon-map-1"></div>`),
		Pokemons: []summary{
			{PokemonID: 1, ImgURL: "/media/bulbasaur.png", TitleRu: "Бульбазавр"},
			{PokemonID: 2, TitleRu: "<script>"},
		},
	}, "/static/")
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `<html lang="ru">`)
	assert.Contains(t, body, `<div id="pokemon-map-1"></div>`)
	assert.Contains(t, body, `href="/pokemon/1/"`)
	assert.Contains(t, body, "Бульбазавр")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Все покемоны")
	assert.Contains(t, body, `href="/static/style.css"`)
}

func TestPokemonPageEnglish(t *testing.T) {
	rn, err := New(discard)
	require.NoError(t, err)

	type elementType struct {
		Title         string
		Img           string
		StrongAgainst []string
	}

	r := httptest.NewRequest(http.MethodGet, "/pokemon/2/", nil)
	r = r.WithContext(i18n.WithTag(r.Context(), language.English))
	rec := httptest.NewRecorder()

	err = rn.HTML(rec, r, http.StatusOK, "pokemon", struct {
		Map     template.HTML
		Pokemon struct {
			PokemonID         int
			TitleRu           string
			TitleEn           string
			TitleJp           string
			Description       string
			ImgURL            string
			ElementTypes      []elementType
			PreviousEvolution *summary
			NextEvolution     *summary
		}
	}{
		Pokemon: struct {
			PokemonID         int
			TitleRu           string
			TitleEn           string
			TitleJp           string
			Description       string
			ImgURL            string
			ElementTypes      []elementType
			PreviousEvolution *summary
			NextEvolution     *summary
		}{
			PokemonID:         2,
			TitleRu:           "Какуна",
			TitleEn:           "Kakuna",
			ElementTypes:      []elementType{{Title: "Bug", StrongAgainst: []string{"Grass", "Psychic"}}},
			PreviousEvolution: &summary{PokemonID: 1, TitleRu: "Weedle"},
		},
	}, "/static/")
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Какуна</title>")
	assert.Contains(t, body, "Evolved from")
	assert.Contains(t, body, `href="/pokemon/1/"`)
	assert.NotContains(t, body, "Evolves into")
	assert.Contains(t, body, "Strong against: Grass, Psychic")
	assert.NotContains(t, body, `class="title-jp"`)
}

func TestUnknownTemplate(t *testing.T) {
	rn, err := New(discard)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = rn.HTML(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", nil, "/static/")
	require.Error(t, err)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestExecutionErrorWritesNothing(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(`{{block "content" .}}{{end}}`)},
		"templates/broken.html": {Data: []byte(`{{define "content"}}{{.Data.Missing.Field}}{{end}}`)},
	}
	rn, err := NewFromFS(fsys, discard)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = rn.HTML(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "broken", struct{}{}, "/static/")
	require.Error(t, err)
	assert.Equal(t, 0, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pokemon-map/internal/mapview"
	"pokemon-map/internal/pokemon"
	"pokemon-map/internal/shared/errors"
	"pokemon-map/internal/shared/i18n"
	"pokemon-map/internal/shared/response"
	"pokemon-map/internal/sighting"
)

type SpeciesService interface {
	ListSpecies(ctx context.Context) ([]pokemon.Summary, error)
	GetDetail(ctx context.Context, id int) (*pokemon.Detail, error)
}

type SightingService interface {
	ListVisible(ctx context.Context, at time.Time) ([]sighting.Sighting, error)
	ListVisibleBySpecies(ctx context.Context, pokemonID int, at time.Time) ([]sighting.Sighting, error)
}

type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, name string, data any, staticURL string) error
}

// PageConfig carries the map and asset settings the pages need.
type PageConfig struct {
	Center          mapview.Location
	Zoom            int
	IconSize        int
	DefaultImageURL string
	StaticURL       string
	// IconURL turns a stored image path into an absolute URL for marker icons.
	IconURL func(path string) string
}

type PageHandler struct {
	species   SpeciesService
	sightings SightingService
	renderer  Renderer
	config    PageConfig
	now       func() time.Time
}

func NewPageHandler(species SpeciesService, sightings SightingService, renderer Renderer, config PageConfig) *PageHandler {
	return &PageHandler{
		species:   species,
		sightings: sightings,
		renderer:  renderer,
		config:    config,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for the visibility window.
func (h *PageHandler) WithClock(now func() time.Time) *PageHandler {
	h.now = now
	return h
}

type indexPage struct {
	Map      template.HTML
	Pokemons []pokemon.Summary
}

type detailPage struct {
	Map     template.HTML
	Pokemon *pokemon.Detail
}

// Index renders every species and the sightings visible right now.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "index")

	if !isReadMethod(r.Method) {
		response.Page(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	at := h.now()
	visible, err := h.sightings.ListVisible(ctx, at)
	if err != nil {
		response.Page(w, r, logger, err)
		return
	}

	m := h.newMap()
	for _, s := range visible {
		icon := h.config.DefaultImageURL
		if s.PokemonImage != nil {
			icon = h.iconURL(*s.PokemonImage)
		}
		h.addSighting(ctx, m, s, s.PokemonTitle, icon)
	}

	species, err := h.species.ListSpecies(ctx)
	if err != nil {
		response.Page(w, r, logger, err)
		return
	}

	mapHTML, err := m.HTML()
	if err != nil {
		response.Page(w, r, logger, errors.WrapInternal("failed to render map", err))
		return
	}

	logger.Debug("Index assembled", "visible", len(visible), "species", len(species))
	h.render(w, r, logger, "mainpage", indexPage{Map: mapHTML, Pokemons: species})
}

// Detail renders one species with its visible sightings. Any id that does
// not resolve to a species, malformed ones included, is a 404.
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "pokemon_detail")

	if !isReadMethod(r.Method) {
		response.Page(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	idStr := r.PathValue("id")
	id, err := parseID(idStr)
	if err != nil {
		response.PageWithMessage(w, r, logger, errors.WrapNotFound("malformed pokemon id "+strconv.Quote(idStr), err), i18n.MsgPokemonNotFound)
		return
	}

	detail, err := h.species.GetDetail(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			response.PageWithMessage(w, r, logger, err, i18n.MsgPokemonNotFound)
			return
		}
		response.Page(w, r, logger, err)
		return
	}

	visible, err := h.sightings.ListVisibleBySpecies(ctx, detail.PokemonID, h.now())
	if err != nil {
		response.Page(w, r, logger, err)
		return
	}

	icon := h.config.DefaultImageURL
	if detail.Image != "" {
		icon = h.iconURL(detail.Image)
	}

	m := h.newMap()
	for _, s := range visible {
		h.addSighting(ctx, m, s, detail.TitleRu, icon)
	}

	mapHTML, err := m.HTML()
	if err != nil {
		response.Page(w, r, logger, errors.WrapInternal("failed to render map", err))
		return
	}

	logger.Debug("Pokemon detail rendered", "pokemon_id", detail.PokemonID, "visible", len(visible))
	h.render(w, r, logger, "pokemon", detailPage{Map: mapHTML, Pokemon: detail})
}

// NotFound handles every path no route claims.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.Page(w, r, slog.With("handler", "not_found"), errors.NotFoundf("no route for %s", r.URL.Path))
}

func (h *PageHandler) newMap() *mapview.Map {
	return mapview.New(h.config.Center, h.config.Zoom)
}

func (h *PageHandler) addSighting(ctx context.Context, m *mapview.Map, s sighting.Sighting, title, icon string) {
	m.AddMarker(mapview.Marker{
		Location: mapview.Location{Lat: s.Latitude, Lon: s.Longitude},
		Tooltip:  title,
		IconURL:  icon,
		IconSize: h.config.IconSize,
		Popup:    mapview.StatsPopup(statsRows(ctx, s.Stats), i18n.T(ctx, i18n.MsgNoData)),
	})
}

func (h *PageHandler) iconURL(path string) string {
	if h.config.IconURL == nil {
		return path
	}
	if url := h.config.IconURL(path); url != "" {
		return url
	}
	return h.config.DefaultImageURL
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string, data any) {
	if err := h.renderer.HTML(w, r, http.StatusOK, name, data, h.config.StaticURL); err != nil {
		response.Page(w, r, logger, errors.WrapInternal("failed to render page", err))
	}
}

func statsRows(ctx context.Context, stats sighting.Stats) []mapview.PopupRow {
	if !stats.HasData() {
		return nil
	}
	return []mapview.PopupRow{
		{Label: i18n.T(ctx, i18n.MsgStatLevel), Value: stats.Level},
		{Label: i18n.T(ctx, i18n.MsgStatHealth), Value: stats.Health},
		{Label: i18n.T(ctx, i18n.MsgStatStrength), Value: stats.Strength},
		{Label: i18n.T(ctx, i18n.MsgStatDefence), Value: stats.Defence},
		{Label: i18n.T(ctx, i18n.MsgStatStamina), Value: stats.Stamina},
	}
}

// parseID accepts only plain decimal digits, so each species has exactly
// one URL ("+1", " 1" and "01" are not aliases of "1").
func parseID(s string) (int, error) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, fmt.Errorf("id %q is not a canonical number", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("id %q contains a non-digit", s)
		}
	}
	return strconv.Atoi(s)
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

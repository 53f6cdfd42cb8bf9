package server

import (
	"log/slog"
	"net/http"

	"pokemon-map/internal/middleware"
	pokemonHandlers "pokemon-map/internal/pokemon/handlers"
	"pokemon-map/internal/shared/config"
	"pokemon-map/internal/shared/i18n"
)

type Routes struct {
	pages       *pokemonHandlers.PageHandler
	health      http.Handler
	media       config.MediaConfig
	rateLimiter *middleware.RateLimiter
	cors        *middleware.CORSMiddleware
}

func NewRoutes(pages *pokemonHandlers.PageHandler, health http.Handler, media config.MediaConfig, rateLimiter *middleware.RateLimiter, cors *middleware.CORSMiddleware) *Routes {
	return &Routes{
		pages:       pages,
		health:      health,
		media:       media,
		rateLimiter: rateLimiter,
		cors:        cors,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	// Pages answer non-GET methods themselves with a localized 405
	mux.HandleFunc("/{$}", r.pages.Index)
	mux.HandleFunc("/pokemon/{id}", r.pages.Detail)
	mux.HandleFunc("/pokemon/{id}/{$}", r.pages.Detail)
	mux.HandleFunc("/", r.pages.NotFound)

	mux.Handle("GET /api/server/health", r.health)

	mux.Handle("GET "+r.media.URL, http.StripPrefix(r.media.URL, http.FileServer(http.Dir(r.media.Dir))))
	mux.Handle("GET "+r.media.StaticURL, http.StripPrefix(r.media.StaticURL, http.FileServer(http.Dir(r.media.StaticDir))))

	logger.Info("Routes configured successfully",
		"page_endpoints", []string{"/", "/pokemon/{id}/"},
		"api_endpoints", []string{"/api/server/health"},
		"file_endpoints", []string{r.media.URL, r.media.StaticURL},
	)

	return mux
}

// Handler wraps the mux in the middleware chain. The request logger is
// outermost so rate limited and preflight requests are logged too, and the
// language is resolved before the rate limiter writes its 429.
func (r *Routes) Handler() http.Handler {
	var h http.Handler = r.Setup()
	if r.cors != nil {
		h = r.cors.Middleware(h)
	}
	if r.rateLimiter != nil {
		h = r.rateLimiter.Middleware(h)
	}
	h = i18n.Middleware(h)
	return middleware.RequestLogger(h)
}

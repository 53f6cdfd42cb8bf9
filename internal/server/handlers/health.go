package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pokemon-map/internal/shared/errors"
	"pokemon-map/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CacheStatus interface {
	Status(ctx context.Context) string
}

type HealthHandler struct {
	db    Pinger
	cache CacheStatus
	now   func() time.Time
}

// NewHealthHandler reports database and cache reachability. cache may be
// nil when Redis is disabled. An unreachable database is a 503, a missing
// cache is not.
func NewHealthHandler(db Pinger, cache CacheStatus) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, now: time.Now}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		response.Error(w, r, logger, errors.WrapExternal("database unreachable", err))
		return
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = h.cache.Status(ctx)
		if cacheStatus == "disconnected" {
			logger.Warn("Redis ping failed")
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Format(time.RFC3339),
		Database:  "connected",
		Cache:     cacheStatus,
	}

	response.Success(w, http.StatusOK, resp)
}

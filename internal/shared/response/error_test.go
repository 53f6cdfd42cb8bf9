package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "pokemon-map/internal/shared/errors"
	"pokemon-map/internal/shared/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestErrorJSON(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantType    string
		wantMessage string
	}{
		{name: "not found", err: apperrors.NotFoundf("pokemon %d not found", 9), wantCode: http.StatusNotFound, wantType: "not_found", wantMessage: "pokemon 9 not found"},
		{name: "validation", err: apperrors.Validationf("bad %s", "id"), wantCode: http.StatusBadRequest, wantType: "validation", wantMessage: "bad id"},
		{name: "internal hides detail", err: errors.New("pq: password leak"), wantCode: http.StatusInternalServerError, wantType: "internal", wantMessage: "Internal Server Error"},
		{name: "external hides detail", err: apperrors.WrapExternal("redis", errors.New("dial tcp")), wantCode: http.StatusServiceUnavailable, wantType: "external", wantMessage: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), discard, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestPageWithMessageIsLocalized(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{tag: language.Russian, want: "<h1>Такой покемон не найден</h1>"},
		{tag: language.English, want: "<h1>Pokémon not found</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/pokemon/999/", nil)
			r = r.WithContext(i18n.WithTag(r.Context(), tt.tag))
			rec := httptest.NewRecorder()

			PageWithMessage(rec, r, discard, apperrors.NotFoundf("pokemon %d not found", 999), i18n.MsgPokemonNotFound)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestPageMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	Page(rec, httptest.NewRequest(http.MethodPost, "/", nil), discard, apperrors.MethodNotAllowed(http.MethodPost))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.Contains(t, rec.Body.String(), "Метод не поддерживается")
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        language.Tag
		wantPersist bool
	}{
		{name: "default", target: "/", want: language.Russian},
		{name: "query wins", target: "/?lang=en", cookie: "ru", accept: "ru", want: language.English, wantPersist: true},
		{name: "cookie", target: "/", cookie: "en", accept: "ru", want: language.English},
		{name: "accept language", target: "/", accept: "en-GB,en;q=0.9", want: language.English},
		{name: "accept language regional russian", target: "/", accept: "ru-RU", want: language.Russian},
		{name: "unsupported query falls through", target: "/?lang=xx-invalid-@@", accept: "en", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}

			got, persist := ResolveTag(r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPersist, persist)
		})
	}
}

func TestTranslate(t *testing.T) {
	ru := WithTag(context.Background(), language.Russian)
	en := WithTag(context.Background(), language.English)

	assert.Equal(t, "Такой покемон не найден", T(ru, MsgPokemonNotFound))
	assert.Equal(t, "Pokémon not found", T(en, MsgPokemonNotFound))
	assert.Equal(t, "Нет данных", T(context.Background(), MsgNoData))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	ru := catalogs[language.Russian]
	en := catalogs[language.English]
	require.Len(t, en, len(ru))
	for key := range ru {
		assert.Contains(t, en, key)
	}
}

func TestMiddlewarePersistsQueryLanguage(t *testing.T) {
	var seen language.Tag
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))

	assert.Equal(t, language.English, seen)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookieName, cookies[0].Name)
	assert.Equal(t, "en", cookies[0].Value)
}

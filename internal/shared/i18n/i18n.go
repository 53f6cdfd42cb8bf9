// Package i18n resolves the request language and translates UI strings.
package i18n

import (
	"context"
	"net/http"
	"strings"

	"pokemon-map/internal/shared/cookies"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = cookies.LanguageName
)

// Message keys. The English catalog doubles as the key text.
const (
	MsgPokemonNotFound  = "Pokemon not found"
	MsgNotFound         = "Page not found"
	MsgBadRequest       = "Bad request"
	MsgNoData           = "No data"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternalError    = "Something went wrong"
	MsgTooManyRequests  = "Too many requests"

	MsgStatLevel    = "Lvl:"
	MsgStatHealth   = "HP:"
	MsgStatStrength = "Str:"
	MsgStatDefence  = "Def:"
	MsgStatStamina  = "Sta:"

	MsgSiteTitle     = "Pokemon map"
	MsgAllPokemons   = "All pokemons"
	MsgEvolvedFrom   = "Evolved from"
	MsgEvolvesInto   = "Evolves into"
	MsgElementTypes  = "Element types"
	MsgStrongAgainst = "Strong against"
	MsgBackToMap     = "Back to the map"
)

var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[string]string{
	language.Russian: {
		MsgPokemonNotFound:  "Такой покемон не найден",
		MsgNotFound:         "Страница не найдена",
		MsgBadRequest:       "Некорректный запрос",
		MsgNoData:           "Нет данных",
		MsgMethodNotAllowed: "Метод не поддерживается",
		MsgInternalError:    "Что-то пошло не так",
		MsgTooManyRequests:  "Слишком много запросов",
		MsgStatLevel:        "Ур:",
		MsgStatHealth:       "Зд:",
		MsgStatStrength:     "Сил:",
		MsgStatDefence:      "Защ:",
		MsgStatStamina:      "Вын:",
		MsgSiteTitle:        "Карта покемонов",
		MsgAllPokemons:      "Все покемоны",
		MsgEvolvedFrom:      "Эволюционировал из",
		MsgEvolvesInto:      "Эволюционирует в",
		MsgElementTypes:     "Стихии",
		MsgStrongAgainst:    "Силён против",
		MsgBackToMap:        "Назад к карте",
	},
	language.English: {
		MsgPokemonNotFound:  "Pokémon not found",
		MsgNotFound:         "Page not found",
		MsgBadRequest:       "Bad request",
		MsgNoData:           "No data",
		MsgMethodNotAllowed: "Method not allowed",
		MsgInternalError:    "Something went wrong",
		MsgTooManyRequests:  "Too many requests",
		MsgStatLevel:        "Lvl:",
		MsgStatHealth:       "HP:",
		MsgStatStrength:     "Str:",
		MsgStatDefence:      "Def:",
		MsgStatStamina:      "Sta:",
		MsgSiteTitle:        "Pokémon map",
		MsgAllPokemons:      "All Pokémon",
		MsgEvolvedFrom:      "Evolved from",
		MsgEvolvesInto:      "Evolves into",
		MsgElementTypes:     "Element types",
		MsgStrongAgainst:    "Strong against",
		MsgBackToMap:        "Back to the map",
	},
}

var defaultTag = language.Russian

func init() {
	for tag, messages := range catalogs {
		for key, text := range messages {
			if err := message.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// SetDefault changes the fallback language. Unsupported values are ignored.
func SetDefault(value string) bool {
	tag, ok := ParseTag(value)
	if ok {
		defaultTag = tag
	}
	return ok
}

// Default returns the fallback language tag.
func Default() language.Tag {
	return defaultTag
}

// ParseTag maps value onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// ResolveTag picks the language for r from the query parameter, the
// preference cookie and Accept-Language, in that order. The bool reports
// whether the choice came from the query and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return defaultTag, false
	}

	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return supported[idx], false
			}
		}
	}

	return defaultTag, false
}

type contextKey struct{}

// WithTag stores tag on ctx.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, contextKey{}, tag)
}

// FromContext returns the tag stored by WithTag, or the default.
func FromContext(ctx context.Context) language.Tag {
	if ctx != nil {
		if tag, ok := ctx.Value(contextKey{}).(language.Tag); ok {
			return tag
		}
	}
	return defaultTag
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T translates key for the language carried by ctx.
func T(ctx context.Context, key string, args ...any) string {
	return Printer(FromContext(ctx)).Sprintf(key, args...)
}

// Middleware resolves the request language once and stores it on the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag, persist := ResolveTag(r)
		if persist {
			cookies.SetLanguage(w, tag.String())
		}
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(WithTag(r.Context(), tag)))
	})
}

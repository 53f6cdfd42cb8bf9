package cookies

import (
	"net/http"
	"time"

	"pokemon-map/internal/shared/config"
)

const (
	LanguageName   = "pokemon_lang"
	languageMaxAge = 365 * 24 * time.Hour
)

// SetLanguage remembers the visitor's language choice for a year.
func SetLanguage(w http.ResponseWriter, lang string) {
	cookie := createLanguageCookie()
	cookie.Value = lang
	cookie.MaxAge = int(languageMaxAge.Seconds())

	http.SetCookie(w, cookie)
}

func createLanguageCookie() *http.Cookie {
	return &http.Cookie{
		Name:     LanguageName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure(),
		SameSite: http.SameSiteLaxMode,
	}
}

func secure() bool {
	cfg := config.GlobalConfig
	return cfg != nil && cfg.Server.Environment == "production"
}

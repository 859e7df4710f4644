package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/simple-lms/console/pkg/intl"
)

// ProvideLocalizer attaches a localizer negotiated from Accept-Language.
func ProvideLocalizer(bundle *i18n.Bundle, defaultLocale language.Tag) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				locale := intl.MatchLanguage(r.Header.Get("Accept-Language"), defaultLocale)
				ctx := intl.WithLocalizer(
					r.Context(),
					i18n.NewLocalizer(bundle, locale.String()),
				)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

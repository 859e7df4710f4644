package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/composables"
)

// WithActor reads the asserted actor id from header. Authentication happens upstream.
func WithActor(header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(header))
			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := authz.WithActor(r.Context(), actor)
			ctx = composables.WithLogger(ctx, composables.UseLogger(ctx).WithField("actor", actor))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

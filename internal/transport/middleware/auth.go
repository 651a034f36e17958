package middleware

import (
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/pkg/logger"
)

// ActorContext tags the request logger with the authenticated user. It must
// run after the auth middleware has attached the actor.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := internal.ActorFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logger.With(r.Context(), "role", actor.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

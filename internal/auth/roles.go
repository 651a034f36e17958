package auth

import (
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/user"
)

// RoleAuthorization gates routes on the role of the authenticated actor.
type RoleAuthorization struct {
	*transport.BaseHandler
}

func NewRoleAuthorization(base *transport.BaseHandler) *RoleAuthorization {
	return &RoleAuthorization{BaseHandler: base}
}

func (ra *RoleAuthorization) Require(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				ra.HandleServiceError(w, internal.ErrMissingAuthorization)
				return
			}
			for _, role := range roles {
				if actor.Role == string(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", actor.ID,
				"role", actor.Role,
				"required_roles", roles)
			ra.HandleServiceError(w, internal.ErrInsufficientRole)
		})
	}
}

func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(user.RoleAdmin)
}

func (ra *RoleAuthorization) RequireManager() func(http.Handler) http.Handler {
	return ra.Require(user.RoleAdmin, user.RoleManager)
}

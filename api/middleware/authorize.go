package middleware

import (
	"net/http"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/internal/access"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// Authorize admits the request only when the policy lets the caller's role reach route.
func Authorize(policy *access.Policy, route string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !policy.Allowed(route, role) {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"route_key": route, "actor_role": string(role)})
					logg.Warn(ctx, "access.denied")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed for this area").WithDetails(map[string]any{"route": route}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

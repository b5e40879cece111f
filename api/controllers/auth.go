package controllers

import (
	"net/http"

	"github.com/angelmondragon/pdv-backend/api/middleware"
	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/api/validators"
	"github.com/angelmondragon/pdv-backend/internal/access"
	"github.com/angelmondragon/pdv-backend/internal/auth"
	"github.com/angelmondragon/pdv-backend/pkg/auth/session"
	"github.com/angelmondragon/pdv-backend/pkg/display"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the session behind the bearer token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.ClearSession(r.Context(), middleware.BearerToken(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type sessionResponse struct {
	Session   session.Session  `json:"session"`
	RoleBadge display.Badge    `json:"role_badge"`
	Routes    []access.NavItem `json:"routes"`
}

// AuthSession returns the signed-in operator together with the areas their role may open.
func AuthSession(svc auth.Service, policy *access.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		sess, err := svc.CurrentSession(r.Context(), middleware.BearerToken(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionResponse{
			Session:   sess,
			RoleBadge: display.RoleBadge(sess.Role),
			Routes:    policy.Routes(sess.Role),
		})
	}
}

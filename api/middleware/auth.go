package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

type sessionResolver interface {
	CurrentSession(ctx context.Context, token string) (session.Session, error)
}

// BearerToken extracts the token from an Authorization header, tolerating a missing scheme.
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// Auth resolves the bearer token to a live session and seeds the request context with it.
func Auth(sessions sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if sessions == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
				return
			}

			sess, err := sessions.CurrentSession(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), sess.UserID, sess.Role, sess.CompanyID, sess.ID)
			if logg != nil {
				fields := map[string]any{
					"user_id":    sess.UserID,
					"actor_role": string(sess.Role),
					"session_id": sess.ID,
				}
				if sess.CompanyID != "" {
					fields["company_id"] = sess.CompanyID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

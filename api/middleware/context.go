package middleware

import (
	"context"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxCompanyID contextKey = "company_id"
	ctxSessionID contextKey = "session_id"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	return enums.UserRole(stringFromContext(ctx, ctxRole))
}

func CompanyIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxCompanyID)
}

// SessionIDFromContext returns the access session id, which also keys the operator's cart.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

// WithIdentity injects the authenticated operator into the context.
func WithIdentity(ctx context.Context, userID string, role enums.UserRole, companyID, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, string(role))
	ctx = context.WithValue(ctx, ctxCompanyID, companyID)
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

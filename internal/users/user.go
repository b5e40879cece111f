package users

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/display"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// User is a staff account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         enums.UserRole
	CompanyID    string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists users.
type Store interface {
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")

func errDuplicateEmail(email string) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "email %s already registered", email).
		WithDetails(map[string]string{"field": "email"})
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Matches reports whether the search term hits the name, email or role label.
func Matches(u User, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(strings.ToLower(display.RoleLabel(u.Role)), q)
}

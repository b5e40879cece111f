package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/pdv-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service drives the users screen.
type Service interface {
	List(ctx context.Context, query string) ([]User, error)
	Create(ctx context.Context, input CreateUserInput) (User, error)
}

type service struct {
	store  Store
	hasher passwordHasher
}

func NewService(store Store, hasher passwordHasher) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{store: store, hasher: hasher}, nil
}

func (s *service) List(ctx context.Context, query string) ([]User, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(all))
	for _, u := range all {
		if Matches(u, query) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" || email == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	role, err := enums.ParseUserRole(strings.TrimSpace(input.Role))
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role").
			WithDetails(map[string]any{"allowed": enums.UserRoles()})
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}
	return s.store.Create(ctx, User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CompanyID:    strings.TrimSpace(input.CompanyID),
		IsActive:     true,
	})
}

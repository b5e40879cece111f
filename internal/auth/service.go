package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/pdv-backend/internal/users"
	pkgAuth "github.com/angelmondragon/pdv-backend/pkg/auth"
	"github.com/angelmondragon/pdv-backend/pkg/auth/session"
	"github.com/angelmondragon/pdv-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

const invalidCredentialsMessage = "invalid credentials"

// Authenticator is the collaborator the rest of the service sees.
type Authenticator interface {
	ValidateCredentials(ctx context.Context, email, password string) (users.User, error)
	CurrentSession(ctx context.Context, token string) (session.Session, error)
	ClearSession(ctx context.Context, token string) error
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Authenticator
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type sessionManager interface {
	Create(ctx context.Context, s session.Session) (session.Session, error)
	Get(ctx context.Context, sessionID string) (session.Session, error)
	Revoke(ctx context.Context, sessionID string) error
}

type passwordVerifier interface {
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users     userRepository
	Sessions  sessionManager
	Passwords passwordVerifier
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	users     userRepository
	sessions  sessionManager
	passwords passwordVerifier
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Passwords == nil {
		return nil, fmt.Errorf("password verifier is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:     params.Users,
		sessions:  params.Sessions,
		passwords: params.Passwords,
		jwtCfg:    params.JWTConfig,
		now:       now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, session.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	now := s.now().UTC()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		SessionID: sess.ID,
	})
	if err != nil {
		_ = s.sessions.Revoke(ctx, sess.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User:        users.ToDTO(user),
	}, nil
}

func (s *service) ValidateCredentials(ctx context.Context, email, password string) (users.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" || password == "" {
		return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := s.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return users.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) CurrentSession(ctx context.Context, token string) (session.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return session.Session{}, err
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return session.Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if sess.UserID != claims.UserID {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session does not match token")
	}
	return sess, nil
}

func (s *service) ClearSession(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) parse(token string) (*pkgAuth.AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing access token")
	}
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	return claims, nil
}

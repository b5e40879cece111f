package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pdv-backend/pkg/config"
	"github.com/angelmondragon/pdv-backend/pkg/enums"
	redisclient "github.com/angelmondragon/pdv-backend/pkg/redis"
)

// ErrNotFound is returned when a session is unknown or has expired.
var ErrNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(sessionID string) string
}

// Session is the server-side record of a signed-in operator.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CompanyID string         `json:"company_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Manager stores sessions keyed by the access token's jti.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl < accessTTL {
		return nil, fmt.Errorf("session ttl (%s) must cover access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, keyer: client, ttl: ttl, now: time.Now}, nil
}

// TTL is how long a new session lives.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create persists a session and assigns its ID when empty.
func (m *Manager) Create(ctx context.Context, s Session) (Session, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return Session{}, fmt.Errorf("user id is required")
	}
	if s.ID == "" {
		s.ID = NewID()
	}
	now := m.now().UTC()
	s.CreatedAt = now
	s.ExpiresAt = now.Add(m.ttl)

	payload, err := json.Marshal(s)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(s.ID), string(payload), m.ttl); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Get loads a session, returning ErrNotFound once it has been revoked or expired.
func (m *Manager) Get(ctx context.Context, sessionID string) (Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Session{}, ErrNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.AccessSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(sessionID))
}

// NewID produces the identifier used as the JWT jti and Redis key.
func NewID() string {
	return uuid.NewString()
}

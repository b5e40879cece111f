package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/pdv-backend/api/responses"
	"github.com/angelmondragon/pdv-backend/internal/auth"
	"github.com/angelmondragon/pdv-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

const maxLoginBody = 8 << 10

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// LoginThrottle caps operator sign-in attempts per terminal address and per
// account email over a fixed window.
type LoginThrottle struct {
	window      time.Duration
	perTerminal int
	perAccount  int
}

// NewLoginThrottle reads the limits from the auth rate limit config. A zero
// limit disables that counter.
func NewLoginThrottle(cfg config.AuthRateLimitConfig) LoginThrottle {
	return LoginThrottle{
		window:      cfg.LoginWindow,
		perTerminal: cfg.LoginIPLimit,
		perAccount:  cfg.LoginEmailLimit,
	}
}

func (t LoginThrottle) enabled() bool {
	return t.window > 0 && (t.perTerminal > 0 || t.perAccount > 0)
}

func terminalScope(ip string) string { return "login:terminal:" + ip }

// accountScope keys on a digest so operator emails never land in redis.
func accountScope(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "login:account:" + hex.EncodeToString(sum[:])
}

// ThrottleLogin rejects sign-in attempts over either limit with
// RATE_LIMIT_EXCEEDED and a Retry-After of one window. The request body is
// restored for the login handler.
func ThrottleLogin(throttle LoginThrottle, limiter rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !throttle.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if throttle.perTerminal > 0 {
				if ip := clientIP(r); ip != "" {
					if !throttle.allow(ctx, w, limiter, logg, "terminal", terminalScope(ip), throttle.perTerminal) {
						return
					}
				}
			}

			if throttle.perAccount > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read login request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := loginEmail(body); email != "" {
					if !throttle.allow(ctx, w, limiter, logg, "account", accountScope(email), throttle.perAccount) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (t LoginThrottle) allow(ctx context.Context, w http.ResponseWriter, limiter rateLimiter, logg *logger.Logger, counter, scope string, limit int) bool {
	allowed, attempts, err := limiter.FixedWindowAllow(ctx, scope, int64(limit), t.window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login throttle"))
		return false
	}
	if allowed {
		return true
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"counter":        counter,
			"attempts":       attempts,
			"limit":          limit,
			"window_seconds": int(t.window.Seconds()),
		}), "login throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(t.window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many sign-in attempts"))
	return false
}

func loginEmail(payload []byte) string {
	var body auth.LoginRequest
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// clientIP prefers the first forwarded hop.
func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func (f *fakeRateStore) scopes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.counts))
	for scope := range f.counts {
		out = append(out, scope)
	}
	return out
}

func loginAttempt(handler http.Handler, addr, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func passThrough() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestThrottleLoginPassesBodyThrough(t *testing.T) {
	throttle := NewLoginThrottle(config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 2, LoginEmailLimit: 2})
	handler := ThrottleLogin(throttle, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"caixa@pdv.local"`) {
			t.Fatalf("unexpected body: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if rec := loginAttempt(handler, "10.0.0.7:5678", `{"email":"caixa@pdv.local","password":"secret"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestThrottleLoginCountsAccountAcrossTerminals(t *testing.T) {
	store := newFakeRateStore()
	throttle := NewLoginThrottle(config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginEmailLimit: 2})
	handler := ThrottleLogin(throttle, store, nil)(passThrough())

	terminals := []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"}
	for i, addr := range terminals {
		// case and padding do not open a fresh counter
		email := []string{"gerente@pdv.local", " GERENTE@pdv.local", "gerente@PDV.local "}[i]
		rec := loginAttempt(handler, addr, `{"email":"`+email+`","password":"x"}`)
		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected 200, got %d", i, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
		}
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected code: %s", payload.Error.Code)
		}
	}

	for _, scope := range store.scopes() {
		if strings.Contains(scope, "gerente") {
			t.Fatalf("account scope leaks the email: %s", scope)
		}
		if !strings.HasPrefix(scope, "login:account:") {
			t.Fatalf("unexpected scope %s", scope)
		}
	}
}

func TestThrottleLoginCountsTerminal(t *testing.T) {
	throttle := NewLoginThrottle(config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 1})
	handler := ThrottleLogin(throttle, newFakeRateStore(), nil)(passThrough())

	body := `{"email":"caixa@pdv.local","password":"secret"}`
	if rec := loginAttempt(handler, "10.0.0.9:1234", body); rec.Code != http.StatusOK {
		t.Fatalf("expected success, got %d", rec.Code)
	}
	if rec := loginAttempt(handler, "10.0.0.9:4321", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 from the same terminal, got %d", rec.Code)
	}
	if rec := loginAttempt(handler, "10.0.0.10:1234", body); rec.Code != http.StatusOK {
		t.Fatalf("expected another terminal to pass, got %d", rec.Code)
	}
}

func TestThrottleLoginDisabledWithoutWindow(t *testing.T) {
	store := newFakeRateStore()
	handler := ThrottleLogin(NewLoginThrottle(config.AuthRateLimitConfig{LoginIPLimit: 1}), store, nil)(passThrough())
	for i := 0; i < 3; i++ {
		if rec := loginAttempt(handler, "10.0.0.9:1", `{}`); rec.Code != http.StatusOK {
			t.Fatalf("expected throttle off, got %d", rec.Code)
		}
	}
	if len(store.scopes()) != 0 {
		t.Fatal("disabled throttle must not touch the limiter")
	}
}

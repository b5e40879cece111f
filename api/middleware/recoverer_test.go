package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

func TestRecovererAnswersInternalError(t *testing.T) {
	var out bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "recoverer-test", Output: &out})

	r := chi.NewRouter()
	r.Use(Recoverer(logg))
	r.Post("/api/v1/pos/cart/items/{productId}", func(http.ResponseWriter, *http.Request) {
		panic("nil cart line")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pos/cart/items/7", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil || payload.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR envelope, got %s (%v)", rec.Body.String(), err)
	}
	logged := out.String()
	if !strings.Contains(logged, "nil cart line") || !strings.Contains(logged, "/api/v1/pos/cart/items/{productId}") {
		t.Fatalf("expected panic and route in log, got %s", logged)
	}
}

func TestRecovererReraisesAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

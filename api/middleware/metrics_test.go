package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordingObserver struct {
	method, route string
	status        int
}

func (r *recordingObserver) Observe(method, route string, status int, _ time.Duration) {
	r.method, r.route, r.status = method, route, status
}

func TestMetricsObservesRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	handler := Metrics(observer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := requestWithPattern(http.MethodDelete, "/api/v1/pos/cart/items/9", "/api/v1/pos/cart/items/{productId}", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if observer.route != "/api/v1/pos/cart/items/{productId}" || observer.status != http.StatusNotFound || observer.method != http.MethodDelete {
		t.Fatalf("unexpected observation %+v", observer)
	}
}

func TestMetricsDefaultsStatusToOK(t *testing.T) {
	observer := &recordingObserver{}
	handler := Metrics(observer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if observer.status != http.StatusOK || observer.route != unmatchedRoute {
		t.Fatalf("unexpected observation %+v", observer)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/session"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func decodeErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode error envelope: %v (body %q)", err, rr.Body.String())
	}
	return env
}

func withTestSession(req *http.Request, id string) *http.Request {
	ctx := session.ContextWithSession(req.Context(), session.Session{ID: id})
	return req.WithContext(ctx)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := NewRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /healthz, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode healthz body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /readyz, got %d", rr.Code)
	}
}

func TestRouterReadyzReportsStoreFailure(t *testing.T) {
	health := NewHealthHandlers(WithReadinessCheck(func(ctx context.Context) error {
		return errors.New("store unreachable")
	}))
	router := NewRouter(WithHealthHandlers(health))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode readyz body: %v", err)
	}
	if body["status"] != "unavailable" {
		t.Fatalf("expected status unavailable, got %v", body["status"])
	}
	if body["error"] != "store unreachable" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}

func TestRouterUnknownRouteReturnsNotFoundEnvelope(t *testing.T) {
	router := NewRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	env := decodeErrorEnvelope(t, rr)
	if env.Error != "not_found" {
		t.Fatalf("expected not_found code, got %q", env.Error)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := NewRouter(WithCheckoutRoutes(func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	env := decodeErrorEnvelope(t, rr)
	if env.Error != "method_not_allowed" {
		t.Fatalf("expected method_not_allowed code, got %q", env.Error)
	}
}

func TestRouterUnconfiguredGroupReportsNotImplemented(t *testing.T) {
	router := NewRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rr.Code)
	}
	env := decodeErrorEnvelope(t, rr)
	if env.Error != "not_implemented" {
		t.Fatalf("expected not_implemented code, got %q", env.Error)
	}
}

func TestRouterBasePathOverride(t *testing.T) {
	router := NewRouter(
		WithBasePath("/api/v2"),
		WithProductRoutes(func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}),
	)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/products", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on overridden base path, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on old base path, got %d", rr.Code)
	}
}

func TestRouterMutatingRateLimitThrottlesPerSession(t *testing.T) {
	counter := 0
	router := NewRouter(
		WithMiddlewares(session.Middleware(func() string {
			counter++
			return fmt.Sprintf("session-%d", counter)
		})),
		WithCartRoutes(func(r chi.Router) {
			r.Post("/items", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}),
		WithMutatingMiddlewares(NewRateLimitMiddleware(2, time.Minute)),
	)

	do := func(sessionID string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
		req.Header.Set(session.HeaderName, sessionID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("visitor-a"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := do("visitor-a"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the window is exhausted, got %d", code)
	}

	// A different session has its own budget.
	if code := do("visitor-b"); code != http.StatusOK {
		t.Fatalf("expected 200 for a fresh session, got %d", code)
	}
}

func TestRouterOrderRoutesAreRateLimited(t *testing.T) {
	router := NewRouter(
		WithMiddlewares(session.Middleware(func() string { return "session-1" })),
		WithOrderRoutes(func(r chi.Router) {
			r.Post("/{receiptID}/track", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}),
		WithMutatingMiddlewares(NewRateLimitMiddleware(1, time.Minute)),
	)

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/VIBE-01TEST/track", nil)
		req.Header.Set(session.HeaderName, "visitor-a")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("expected 200 for the first request, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the window is exhausted, got %d", code)
	}
}

func TestRouterRateLimitSkipsReadOnlyGroups(t *testing.T) {
	router := NewRouter(
		WithProductRoutes(func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}),
		WithMutatingMiddlewares(NewRateLimitMiddleware(1, time.Minute)),
	)

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}
}

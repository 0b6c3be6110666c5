package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

type fakeAuth struct {
	user *models.User
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == "good" {
		return f.user, nil
	}
	return nil, errors.New("invalid token")
}

func newTestMiddleware(user *models.User) *Middleware {
	return NewMiddleware(fakeAuth{user: user}, logger.Discard())
}

func TestAuth(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	m := newTestMiddleware(user)

	var got *models.User
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = models.UserFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantAnon bool
	}{
		{name: "no header", header: "", wantCode: http.StatusOK, wantAnon: true},
		{name: "valid token", header: "Bearer good", wantCode: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantCode: http.StatusOK},
		{name: "invalid token", header: "Bearer bad", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if got == nil {
				t.Fatal("principal must always be set")
			}
			if got.IsAnonymous() != tt.wantAnon {
				t.Fatalf("anonymous = %v, want %v", got.IsAnonymous(), tt.wantAnon)
			}
		})
	}
}

func TestAuth_PublicPathIgnoresToken(t *testing.T) {
	m := NewMiddleware(fakeAuth{user: &models.User{ID: uuid.New()}}, logger.Discard(), "/api/auth/refresh")

	var got *models.User
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = models.UserFromContext(r.Context())
	}))

	for _, header := range []string{"Bearer expired", "Bearer good", "Basic abc"} {
		got = nil
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", header, rec.Code)
		}
		if got == nil || !got.IsAnonymous() {
			t.Fatalf("%q: public path must run as the anonymous user", header)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("other paths: status = %d, want 401", rec.Code)
	}
}

func TestRequireUser(t *testing.T) {
	m := newTestMiddleware(&models.User{ID: uuid.New()})
	h := m.Auth(m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated: status = %d, want 204", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	m := newTestMiddleware(nil)

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = wrap.FromContext(r.Context()).RequestID
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "req-123" || rec.Header().Get(RequestIDHeader) != "req-123" {
		t.Fatalf("incoming id not propagated: ctx %q header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated id %q is not a uuid", seen)
	}
}

func TestRecover(t *testing.T) {
	m := newTestMiddleware(nil)
	h := m.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	m := newTestMiddleware(nil)
	mux := http.NewServeMux()

	var pattern string
	mux.HandleFunc("GET /api/running/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Metrics("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		pattern = r.Pattern
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/running/session/abc", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if pattern != "GET /api/running/session/{sessionId}" {
		t.Fatalf("pattern = %q", pattern)
	}
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddleware(nil)
	h := m.RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	if m.RateLimit(0, time.Minute)(nil) != nil {
		t.Fatal("disabled limiter must return the next handler unchanged")
	}
}

func TestResponseWriter_Hijacker(t *testing.T) {
	rw := wrapWriter(httptest.NewRecorder())
	if _, _, err := rw.Hijack(); !errors.Is(err, http.ErrNotSupported) {
		t.Fatalf("err = %v, want ErrNotSupported for a recorder", err)
	}
	var _ http.Hijacker = rw
}

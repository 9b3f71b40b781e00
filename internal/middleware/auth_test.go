package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/domain"
	"github.com/countledger/countledger/internal/middleware"
)

type mockSessionLookup struct {
	valid map[string]domain.Identity
}

func (m *mockSessionLookup) ResolveToken(_ context.Context, token string) (domain.Identity, error) {
	if id, ok := m.valid[token]; ok {
		return id, nil
	}
	return domain.Identity{}, errors.New("invalid token")
}

func TestAuthMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockSessionLookup{valid: map[string]domain.Identity{
		"good-token": {AccountID: "acc-1", TenantID: "tenant-1"},
	}}

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"no bearer prefix", "good-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.AuthMiddleware(lookup, log))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockSessionLookup{valid: map[string]domain.Identity{
		"k1": {AccountID: "a1", TenantID: "t1"},
	}}

	var gotTenant, gotAccount string
	r := gin.New()
	r.Use(middleware.AuthMiddleware(lookup, log))
	r.GET("/test", func(c *gin.Context) {
		gotTenant = c.GetString("tenant_id")
		gotAccount = c.GetString("account_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer k1")
	r.ServeHTTP(w, req)

	if gotTenant != "t1" || gotAccount != "a1" {
		t.Fatalf("expected (a1, t1), got (%q, %q)", gotAccount, gotTenant)
	}
}

func TestCachedSessionLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &countingLookup{valid: map[string]domain.Identity{"tok": {AccountID: "a", TenantID: "t"}}}
	cached := middleware.NewCachedSessionLookup(ctx, inner)

	for range 3 {
		id, err := cached.ResolveToken(ctx, "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.TenantID != "t" {
			t.Fatalf("expected tenant t, got %q", id.TenantID)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}

	// Failed lookups are negatively cached too.
	for range 3 {
		if _, err := cached.ResolveToken(ctx, "nope"); err == nil {
			t.Fatal("expected error for unknown token")
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls after negative caching, got %d", inner.calls)
	}
}

type countingLookup struct {
	valid map[string]domain.Identity
	calls int
}

func (m *countingLookup) ResolveToken(_ context.Context, token string) (domain.Identity, error) {
	m.calls++
	if id, ok := m.valid[token]; ok {
		return id, nil
	}
	return domain.Identity{}, errors.New("invalid token")
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"abc123", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			got := middleware.ExtractBearerToken(c)
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

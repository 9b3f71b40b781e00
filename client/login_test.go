package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fastBackoff makes login tests run without real sleeps.
func fastBackoff() LoginOption {
	return WithProfileBackoff(time.Millisecond, 2*time.Millisecond)
}

func TestLogin_Success(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]string{"token": "tok-1"})
		},
		"GET /api/v1/auth/profile": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"profiles": []Profile{{
				ID: "p1", Email: "alice@acme.test", Name: "Alice",
				Role: "admin", TenantID: "t1", IsActive: true,
			}}})
		},
	})
	c.token = "" // force session-store resolution after login

	flow := NewLoginFlow(c, fastBackoff())
	user, err := flow.Login(context.Background(), " alice@acme.test ", "secret1")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.Name != "Alice" || user.TenantID != "t1" {
		t.Errorf("unexpected user: %+v", user)
	}

	sess, err := c.Sessions().Load()
	if err != nil || sess == nil {
		t.Fatalf("expected persisted session, got %v, %v", sess, err)
	}
	if sess.Token != "tok-1" || sess.User.ID != "p1" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestLogin_Defaults(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]string{"token": "tok-1"})
		},
		"GET /api/v1/auth/profile": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"profiles": []Profile{{
				ID: "p1", Email: "bob@acme.test", TenantID: "t1", IsActive: true,
			}}})
		},
	})
	c.token = ""

	flow := NewLoginFlow(c, fastBackoff())
	user, err := flow.Login(context.Background(), "bob@acme.test", "secret1")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.Name != "bob" {
		t.Errorf("expected name defaulted to email local part, got %q", user.Name)
	}
	if user.Role != "user" || user.Plan != "trial" {
		t.Errorf("expected role/plan defaults, got %q/%q", user.Role, user.Plan)
	}
}

func TestLogin_EmptyProfileExhaustsRetries(t *testing.T) {
	var profileCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]string{"token": "tok-1"})
		},
		"GET /api/v1/auth/profile": func(w http.ResponseWriter, _ *http.Request) {
			profileCalls.Add(1)
			jsonResponse(w, 200, map[string]any{"profiles": []Profile{}})
		},
	})
	c.token = ""

	flow := NewLoginFlow(c, fastBackoff(), WithMaxProfileRetries(1))
	_, err := flow.Login(context.Background(), "alice@acme.test", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Classify(err); got != KindProfileIncomplete {
		t.Errorf("Classify() = %v, want %v", got, KindProfileIncomplete)
	}
	if n := profileCalls.Load(); n != 2 {
		t.Errorf("expected initial call + 1 retry = 2 profile calls, got %d", n)
	}

	sess, _ := c.Sessions().Load()
	if sess != nil {
		t.Errorf("expected no session persisted, got %+v", sess)
	}
}

func TestLogin_DeactivatedSignsOut(t *testing.T) {
	var signOutCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]string{"token": "tok-1"})
		},
		"GET /api/v1/auth/profile": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"profiles": []Profile{{
				ID: "p1", Email: "alice@acme.test", TenantID: "t1", IsActive: false,
			}}})
		},
		"POST /api/v1/auth/signout": func(w http.ResponseWriter, _ *http.Request) {
			signOutCalls.Add(1)
			jsonResponse(w, 200, map[string]string{"status": "signed_out"})
		},
	})
	c.token = ""

	flow := NewLoginFlow(c, fastBackoff())
	_, err := flow.Login(context.Background(), "alice@acme.test", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Classify(err); got != KindDeactivated {
		t.Errorf("Classify() = %v, want %v", got, KindDeactivated)
	}
	if signOutCalls.Load() != 1 {
		t.Errorf("expected sign-out to be invoked once, got %d", signOutCalls.Load())
	}

	sess, _ := c.Sessions().Load()
	if sess != nil {
		t.Errorf("expected no session persisted, got %+v", sess)
	}
}

func TestLogin_RetryRecoversOnSecondFetch(t *testing.T) {
	var profileCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]string{"token": "tok-1"})
		},
		"GET /api/v1/auth/profile": func(w http.ResponseWriter, _ *http.Request) {
			if profileCalls.Add(1) == 1 {
				jsonResponse(w, 200, map[string]any{"profiles": []Profile{}})
				return
			}
			jsonResponse(w, 200, map[string]any{"profiles": []Profile{{
				ID: "p1", Email: "alice@acme.test", TenantID: "t1", IsActive: true,
			}}})
		},
	})
	c.token = ""

	flow := NewLoginFlow(c, fastBackoff())
	user, err := flow.Login(context.Background(), "alice@acme.test", "secret1")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.ID != "p1" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLogin_InvalidCredentialsNotRetried(t *testing.T) {
	var signInCalls atomic.Int32
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/signin": func(w http.ResponseWriter, _ *http.Request) {
			signInCalls.Add(1)
			jsonResponse(w, 401, map[string]string{"code": "invalid_credentials", "message": "invalid email or password"})
		},
	})
	c.token = ""

	flow := NewLoginFlow(c, fastBackoff())
	_, err := flow.Login(context.Background(), "alice@acme.test", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Classify(err); got != KindInvalidCredentials {
		t.Errorf("Classify() = %v, want %v", got, KindInvalidCredentials)
	}
	if signInCalls.Load() != 1 {
		t.Errorf("sign-in should not be retried, got %d calls", signInCalls.Load())
	}
}

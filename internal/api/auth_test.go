package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/countledger/countledger/internal/api"
	"github.com/countledger/countledger/internal/models"
)

func TestSignIn(t *testing.T) {
	auth := &mockAuth{
		signInFn: func(_ context.Context, email, password string) (string, error) {
			if email == "alice@acme.test" && password == "secret1" {
				return "tok-123", nil
			}
			return "", models.ErrInvalidCredentials
		},
	}
	h := api.NewAuthHandler(auth, nil, testLogger())

	r := newTestRouter()
	r.POST("/auth/signin", h.SignIn)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"email":"alice@acme.test","password":"secret1"}`, http.StatusOK},
		{"normalizes email", `{"email":" Alice@Acme.TEST ","password":"secret1"}`, http.StatusOK},
		{"wrong password", `{"email":"alice@acme.test","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"bob@acme.test","password":"secret1"}`, http.StatusUnauthorized},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/auth/signin", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestSignIn_StableErrorCodes(t *testing.T) {
	auth := &mockAuth{
		signInFn: func(_ context.Context, _, _ string) (string, error) {
			return "", models.ErrEmailUnconfirmed
		},
	}
	h := api.NewAuthHandler(auth, nil, testLogger())

	r := newTestRouter()
	r.POST("/auth/signin", h.SignIn)

	w := doRequest(r, http.MethodPost, "/auth/signin", `{"email":"a@b.c","password":"x"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", w.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != "email_unconfirmed" {
		t.Errorf("expected code email_unconfirmed, got %q", resp.Code)
	}
}

func TestRegister(t *testing.T) {
	registrar := &mockRegistrar{
		registerFn: func(_ context.Context, req *models.RegistrationRequest) (*models.Profile, error) {
			if err := req.Validate(); err != nil {
				return nil, err
			}
			if req.Email == "taken@acme.test" {
				return nil, models.ErrDuplicateEmail
			}
			return &models.Profile{ID: "p1", TenantID: testTenantID, Role: "admin"}, nil
		},
	}
	h := api.NewAuthHandler(nil, registrar, testLogger())

	r := newTestRouter()
	r.POST("/auth/register", h.Register)

	valid := `{"company_name":"Acme","contact_name":"Alice","email":"alice@acme.test","password":"secret1","password_confirm":"secret1"}`

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", valid, http.StatusCreated},
		{"duplicate email", `{"company_name":"Acme","contact_name":"A","email":"taken@acme.test","password":"secret1","password_confirm":"secret1"}`, http.StatusConflict},
		{"short password", `{"company_name":"Acme","contact_name":"A","email":"a@b.co","password":"abc","password_confirm":"abc"}`, http.StatusBadRequest},
		{"missing company", `{"contact_name":"A","email":"a@b.co","password":"secret1","password_confirm":"secret1"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/auth/register", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestRegister_ValidationMessagePassedThrough(t *testing.T) {
	registrar := &mockRegistrar{
		registerFn: func(_ context.Context, req *models.RegistrationRequest) (*models.Profile, error) {
			return nil, req.Validate()
		},
	}
	h := api.NewAuthHandler(nil, registrar, testLogger())

	r := newTestRouter()
	r.POST("/auth/register", h.Register)

	body := `{"company_name":"Acme","contact_name":"A","email":"a@b.co","password":"abc","password_confirm":"abc"}`
	w := doRequest(r, http.MethodPost, "/auth/register", body)

	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "Password must be at least 6 characters" {
		t.Errorf("expected verbatim validation message, got %q", resp.Message)
	}
	if resp.Code != "validation_error" {
		t.Errorf("expected code validation_error, got %q", resp.Code)
	}
}

func TestProfiles(t *testing.T) {
	auth := &mockAuth{
		profilesFn: func(_ context.Context, accountID string) ([]models.Profile, error) {
			if accountID != testAccountID {
				t.Errorf("unexpected account id %q", accountID)
			}
			return []models.Profile{{ID: "p1", TenantID: testTenantID}}, nil
		},
	}
	h := api.NewAuthHandler(auth, nil, testLogger())

	r := newTestRouter()
	r.GET("/auth/profile", h.Profiles)

	w := doRequest(r, http.MethodGet, "/auth/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Profiles []models.Profile `json:"profiles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].ID != "p1" {
		t.Errorf("unexpected profiles: %+v", resp.Profiles)
	}
}

func TestProfiles_EmptyListNotNull(t *testing.T) {
	auth := &mockAuth{
		profilesFn: func(_ context.Context, _ string) ([]models.Profile, error) {
			return nil, nil
		},
	}
	h := api.NewAuthHandler(auth, nil, testLogger())

	r := newTestRouter()
	r.GET("/auth/profile", h.Profiles)

	w := doRequest(r, http.MethodGet, "/auth/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != `{"profiles":[]}` {
		t.Errorf("expected empty array, got %s", got)
	}
}

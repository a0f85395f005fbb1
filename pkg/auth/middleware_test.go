package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService for testing.
type mockAuthService struct {
	identity    Identity
	validateErr error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (Identity, error) {
	if m.validateErr != nil {
		return Identity{}, m.validateErr
	}
	return m.identity, nil
}

func TestMiddleware_RequireAuth_Success(t *testing.T) {
	authService := &mockAuthService{identity: Identity{UserID: "user-123", Email: "u@example.com"}}
	middleware := NewMiddleware(authService, zap.NewNop())

	var handlerCalled bool
	var ctxIdentity Identity
	var ctxOK bool

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		ctxIdentity, ctxOK = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/saved", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if !handlerCalled {
		t.Error("expected handler to be called")
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if !ctxOK || ctxIdentity.UserID != "user-123" {
		t.Error("expected identity to be set in context")
	}
}

func TestMiddleware_RequireAuth_Unauthorized(t *testing.T) {
	authService := &mockAuthService{validateErr: ErrMissingAuthorization}
	middleware := NewMiddleware(authService, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/saved", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["error"] != "unauthorized" {
		t.Errorf("expected error 'unauthorized', got %q", response["error"])
	}

	if response["message"] != ErrMissingAuthorization.Error() {
		t.Errorf("expected verifier detail in message, got %q", response["message"])
	}
}

func TestMiddleware_OptionalAuth_ProceedsWithoutIdentity(t *testing.T) {
	authService := &mockAuthService{validateErr: ErrInvalidAuthFormat}
	middleware := NewMiddleware(authService, zap.NewNop())

	var handlerCalled bool
	handler := middleware.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if _, ok := GetIdentity(r.Context()); ok {
			t.Error("expected no identity in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/search", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if !handlerCalled {
		t.Error("expected handler to be called despite invalid credential")
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestMiddleware_OptionalAuth_AttachesIdentityWhenValid(t *testing.T) {
	authService := &mockAuthService{identity: Identity{UserID: "user-456"}}
	middleware := NewMiddleware(authService, zap.NewNop())

	handler := middleware.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok || identity.UserID != "user-456" {
			t.Error("expected identity in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/search", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

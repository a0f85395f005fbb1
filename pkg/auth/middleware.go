package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth verifies the bearer credential and rejects the request with
// 401 when it is missing or invalid; the downstream handler is never invoked
// in that case. On success the decoded identity is attached to the request
// context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches an identity when a valid bearer credential is
// present but never rejects the request; the downstream handler decides what
// an anonymous caller may do.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authService.ValidateRequest(r)
		if err != nil {
			next(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response carrying the verifier's error detail.
func (m *Middleware) unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": err.Error(),
	})
}

package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrMissingSubject       = errors.New("token has no subject")
)

// AuthService defines the interface for authentication operations.
// This abstraction separates HTTP handling from token verification,
// making both easier to test.
type AuthService interface {
	// ValidateRequest extracts the bearer credential from the request's
	// Authorization header and verifies it. Exactly one verification attempt
	// is made per request; results are never cached.
	// Returns the decoded identity or an error.
	ValidateRequest(r *http.Request) (Identity, error)
}

// authService implements AuthService.
type authService struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService with the given verifier and logger.
func NewAuthService(verifier TokenVerifier, logger *zap.Logger) AuthService {
	return &authService{
		verifier: verifier,
		logger:   logger,
	}
}

// ValidateRequest extracts and verifies the bearer credential.
func (s *authService) ValidateRequest(r *http.Request) (Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No bearer token in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return Identity{}, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return Identity{}, ErrInvalidAuthFormat
	}

	claims, err := s.verifier.VerifyToken(parts[1])
	if err != nil {
		s.logger.Debug("Token verification failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return Identity{}, err
	}

	if claims.Subject == "" {
		return Identity{}, ErrMissingSubject
	}

	return IdentityFromClaims(claims), nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)

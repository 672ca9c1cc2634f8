package api

import (
	"context"
	"net/http"

	"github.com/millukiapp/milluki-server/internal/http/response"
)

// TokenHeader is the request header carrying the access token.
const TokenHeader = "x-auth-token"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyIdentityID contextKey = "identity_id"
	contextKeyEmail      contextKey = "email"
)

// requireAuth validates the x-auth-token header and attaches the identity
// to the request context. A missing token is 401; a token that fails
// verification is 400.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get(TokenHeader)
		if tokenString == "" {
			response.Unauthorized(w, "No token, authorization denied", s.logger)
			return
		}

		claims, err := s.authService.VerifyToken(tokenString)
		if err != nil {
			response.BadRequest(w, "Token is not valid", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentityID, claims.IdentityID)
		ctx = context.WithValue(ctx, contextKeyEmail, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// limitLogin throttles login attempts per client IP. RealIP middleware
// runs earlier, so RemoteAddr is usable as the key.
func (s *Server) limitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loginLimiter != nil && !s.loginLimiter.Allow(r.RemoteAddr) {
			response.TooManyRequests(w, "Too many login attempts, try again later", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getIdentityID extracts the authenticated identity ID from request context.
// Returns empty string if not authenticated.
func getIdentityID(ctx context.Context) string {
	if identityID, ok := ctx.Value(contextKeyIdentityID).(string); ok {
		return identityID
	}
	return ""
}

// getEmail extracts the authenticated email from request context.
// Returns empty string if not authenticated.
func getEmail(ctx context.Context) string {
	if email, ok := ctx.Value(contextKeyEmail).(string); ok {
		return email
	}
	return ""
}

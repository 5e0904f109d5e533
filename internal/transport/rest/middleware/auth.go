package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mohammadf16/numberhunt/internal/service"
)

type contextKey string

const (
	identityIDKey contextKey = "identityId"
	usernameKey   contextKey = "username"
)

// AuthMiddleware validates the identity token on every request that
// reaches the engine.
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates an auth middleware.
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireIdentity validates the bearer token and stores the identity
// in the request context.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}
		claims, err := m.authSvc.Validate(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		ctx := r.Context()
		ctx = context.WithValue(ctx, identityIDKey, claims.IdentityID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityID extracts the authenticated identity id from ctx.
func GetIdentityID(ctx context.Context) string {
	if v := ctx.Value(identityIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetUsername extracts the authenticated username from ctx.
func GetUsername(ctx context.Context) string {
	if v := ctx.Value(usernameKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

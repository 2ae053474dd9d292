package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"jobboard-backend/internal/auth"
	"jobboard-backend/pkg/utils"
)

type contextKey string

const EmailKey contextKey = "email"

// AccessTokenParam carries the bearer token on websocket upgrades, since
// browsers cannot set headers on them.
const AccessTokenParam = "access_token"

// TokenValidator is satisfied by *auth.JWTManager.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
	policy auth.AdminPolicy
}

func NewAuthMiddleware(tokens TokenValidator, policy auth.AdminPolicy) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, policy: policy}
}

// Authenticate validates the bearer token and stores the caller's email
// in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" && websocket.IsWebSocketUpgrade(r) {
			if token := r.URL.Query().Get(AccessTokenParam); token != "" {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			utils.RespondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Email)))
	})
}

// RequireAdmin authenticates and then applies the admin policy.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, _ := GetEmailFromContext(r.Context())
		if m.policy == nil || !m.policy(email) {
			utils.RespondError(w, http.StatusForbidden, "Forbidden: admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, email)
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

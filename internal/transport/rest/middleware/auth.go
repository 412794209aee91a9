package middleware

import (
	"context"
	"net/http"
	"strings"

	"shopcheck/internal/model"
	"shopcheck/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userId"
	ChatIDKey contextKey = "chatId"
	RoleKey   contextKey = "role"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireWorker validates a worker JWT from the Authorization header
func (m *AuthMiddleware) RequireWorker(next http.Handler) http.Handler {
	return m.require(next, model.RoleWorker)
}

// RequireAdmin validates an admin JWT. Superadmins pass every admin check.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.require(next, model.RoleAdmin, model.RoleSuperadmin)
}

// RequireSuperadmin validates a superadmin JWT
func (m *AuthMiddleware) RequireSuperadmin(next http.Handler) http.Handler {
	return m.require(next, model.RoleSuperadmin)
}

func (m *AuthMiddleware) require(next http.Handler, roles ...model.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			// Try query param for WebSocket
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			http.Error(w, `{"error":"insufficient role"}`, http.StatusForbidden)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, ChatIDKey, claims.ChatID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the caller's user ID from context
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetChatID extracts the caller's chat ID from context
func GetChatID(ctx context.Context) int64 {
	if v := ctx.Value(ChatIDKey); v != nil {
		return v.(int64)
	}
	return 0
}

// GetRole extracts the caller's role from context
func GetRole(ctx context.Context) model.Role {
	if v := ctx.Value(RoleKey); v != nil {
		return v.(model.Role)
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

// internal/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/pkg/auth"
)

// AuthMiddleware guards routes that need a bearer access token
type AuthMiddleware struct {
	tokenManager *auth.TokenManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokenManager *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager}
}

// RequireAuth rejects requests without a usable access token. A missing or
// garbled Authorization header is 401; a token that fails to decode is 403.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		subject, err := a.tokenManager.Decode(token, auth.AccessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		accountID, err := uuid.Parse(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(string(ContextKeyAccountID), accountID)
		c.Request = c.Request.WithContext(WithAccountID(c.Request.Context(), accountID))
		c.Next()
	}
}

// AccountID returns the account authenticated by RequireAuth.
func AccountID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(string(ContextKeyAccountID)); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	id, _ := GetAccountIDFromContext(c.Request.Context())
	return id
}

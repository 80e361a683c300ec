// internal/middleware/context_extractor.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeys for storing request metadata
type ContextKey string

const (
	ContextKeyIPAddress ContextKey = "ip_address"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyAccountID ContextKey = "account_id"
)

// ClientInfoExtractor copies the caller's IP address and user agent into the
// request context so that services can read them without gin.
func ClientInfoExtractor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithClientInfo(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// WithClientInfo returns a copy of ctx carrying the client's address and agent.
func WithClientInfo(ctx context.Context, ipAddress, userAgent string) context.Context {
	if ipAddress != "" {
		ctx = context.WithValue(ctx, ContextKeyIPAddress, ipAddress)
	}
	if userAgent != "" {
		ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	}
	return ctx
}

// WithAccountID returns a copy of ctx carrying the authenticated account.
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyAccountID, accountID)
}

// GetIPAddressFromContext extracts IP address from context
func GetIPAddressFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyIPAddress).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgentFromContext extracts user agent from context
func GetUserAgentFromContext(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// GetAccountIDFromContext extracts the authenticated account id from context
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ContextKeyAccountID).(uuid.UUID)
	return id, ok
}

// ClientInfo describes who is calling
type ClientInfo struct {
	IPAddress string
	UserAgent string
	AccountID string
}

// GetClientInfoFromContext extracts all client information from context
func GetClientInfoFromContext(ctx context.Context) *ClientInfo {
	info := &ClientInfo{
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
	}

	if accountID, ok := GetAccountIDFromContext(ctx); ok {
		info.AccountID = accountID.String()
	}

	return info
}

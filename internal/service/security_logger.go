// internal/service/security_logger.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/pkg/security"
)

// SecurityLogger provides convenience methods for logging security events.
// Failures are logged and swallowed; auditing never fails a request.
type SecurityLogger struct {
	securityService *SecurityService
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger(securityService *SecurityService) *SecurityLogger {
	return &SecurityLogger{
		securityService: securityService,
	}
}

// LogFromContext logs a security event using the client info in ctx.
// accountID may be uuid.Nil for events not tied to an account.
func (sl *SecurityLogger) LogFromContext(ctx context.Context, accountID uuid.UUID, eventType, description, severity string) {
	clientInfo := middleware.GetClientInfoFromContext(ctx)

	err := sl.securityService.LogSecurityEvent(ctx, &LogSecurityEventRequest{
		AccountID:   accountID,
		EventType:   eventType,
		Description: description,
		Severity:    severity,
		IPAddress:   clientInfo.IPAddress,
		UserAgent:   clientInfo.UserAgent,
	})
	if err != nil {
		log.Printf("[WARN] security event %s not recorded: %v", eventType, err)
	}
}

// Convenience methods for common security events

func (sl *SecurityLogger) LogRegistered(ctx context.Context, accountID uuid.UUID) {
	sl.LogFromContext(ctx, accountID, security.EventTypeRegistered,
		"Account registered", security.SeverityLow)
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, accountID uuid.UUID) {
	sl.LogFromContext(ctx, accountID, security.EventTypeLoginSuccess,
		"Account successfully logged in", security.SeverityLow)
}

// LogLoginFailed records a failed login. accountID is uuid.Nil when the email
// is unknown.
func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, accountID uuid.UUID, email, reason string) {
	sl.LogFromContext(ctx, accountID, security.EventTypeLoginFailed,
		"Login failed for "+email+": "+reason, security.SeverityMedium)
}

func (sl *SecurityLogger) LogTokenRefreshed(ctx context.Context, accountID uuid.UUID) {
	sl.LogFromContext(ctx, accountID, security.EventTypeTokenRefreshed,
		"Session refreshed", security.SeverityLow)
}

func (sl *SecurityLogger) LogRefreshRejected(ctx context.Context, accountID uuid.UUID, reason string) {
	sl.LogFromContext(ctx, accountID, security.EventTypeRefreshRejected,
		"Refresh rejected: "+reason, security.SeverityMedium)
}

func (sl *SecurityLogger) LogLogout(ctx context.Context, accountID uuid.UUID) {
	sl.LogFromContext(ctx, accountID, security.EventTypeLogout,
		"Account logged out", security.SeverityLow)
}

func (sl *SecurityLogger) LogRateLimited(ctx context.Context, path string) {
	sl.LogFromContext(ctx, uuid.Nil, security.EventTypeRateLimited,
		"Rate limit exceeded on "+path, security.SeverityMedium)
}

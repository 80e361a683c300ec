// pkg/security/event_types.go
package security

import "fmt"

// EventType constants for string-based event type handling
const (
	EventTypeRegistered      = "registered"
	EventTypeLoginSuccess    = "login_success"
	EventTypeLoginFailed     = "login_failed"
	EventTypeTokenRefreshed  = "token_refreshed"
	EventTypeRefreshRejected = "refresh_rejected"
	EventTypeLogout          = "logout"
	EventTypeRateLimited     = "rate_limited"
)

// Severity constants for string-based severity handling
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidEventTypes returns all valid event type strings
func ValidEventTypes() []string {
	return []string{
		EventTypeRegistered,
		EventTypeLoginSuccess,
		EventTypeLoginFailed,
		EventTypeTokenRefreshed,
		EventTypeRefreshRejected,
		EventTypeLogout,
		EventTypeRateLimited,
	}
}

// ValidSeverities returns all valid severity strings
func ValidSeverities() []string {
	return []string{
		SeverityLow,
		SeverityMedium,
		SeverityHigh,
		SeverityCritical,
	}
}

// ParseEventType checks eventType against the known event types.
func ParseEventType(eventType string) (string, error) {
	for _, t := range ValidEventTypes() {
		if t == eventType {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %s", eventType)
}

// ParseSeverity checks severity against the known severities.
func ParseSeverity(severity string) (string, error) {
	for _, s := range ValidSeverities() {
		if s == severity {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown severity: %s", severity)
}

// IsValidEventType checks if the event type string is valid
func IsValidEventType(eventType string) bool {
	_, err := ParseEventType(eventType)
	return err == nil
}

// IsValidSeverity checks if the severity string is valid
func IsValidSeverity(severity string) bool {
	_, err := ParseSeverity(severity)
	return err == nil
}

// internal/service/security_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/pkg/security"
)

// SecurityService handles security event logging and retrieval
type SecurityService struct {
	events *repository.SecurityEventRepository
}

// NewSecurityService creates a new security service
func NewSecurityService(events *repository.SecurityEventRepository) *SecurityService {
	return &SecurityService{events: events}
}

// LogSecurityEvent validates and stores a security event
func (s *SecurityService) LogSecurityEvent(ctx context.Context, req *LogSecurityEventRequest) error {
	eventType, err := security.ParseEventType(req.EventType)
	if err != nil {
		return fmt.Errorf("invalid event type: %w", err)
	}

	severity, err := security.ParseSeverity(req.Severity)
	if err != nil {
		return fmt.Errorf("invalid severity: %w", err)
	}

	event := &models.SecurityEvent{
		EventType:   eventType,
		Severity:    severity,
		Description: req.Description,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
	}
	if req.AccountID != uuid.Nil {
		id := req.AccountID
		event.AccountID = &id
	}

	if _, err := s.events.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to save security event: %w", err)
	}
	return nil
}

// GetSecurityEvents retrieves security events with filtering
func (s *SecurityService) GetSecurityEvents(ctx context.Context, req *GetSecurityEventsRequest) (*GetSecurityEventsResponse, error) {
	filter := repository.SecurityEventFilter{}
	if req.AccountID != uuid.Nil {
		id := req.AccountID
		filter.AccountID = &id
	}
	if req.EventType != "" {
		eventType, err := security.ParseEventType(req.EventType)
		if err != nil {
			return nil, fmt.Errorf("invalid event type filter: %w", err)
		}
		filter.EventType = eventType
	}
	if req.Severity != "" {
		severity, err := security.ParseSeverity(req.Severity)
		if err != nil {
			return nil, fmt.Errorf("invalid severity filter: %w", err)
		}
		filter.Severity = severity
	}

	var page *repository.Pagination
	if req.Limit > 0 {
		p := repository.Pagination{Page: req.Page, Limit: req.Limit}.Normalize()
		page = &p
	}

	events, total, err := s.events.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to get security events: %w", err)
	}

	return &GetSecurityEventsResponse{
		Events:     events,
		TotalCount: total,
	}, nil
}

// Request/Response types

// LogSecurityEventRequest represents a request to log a security event
type LogSecurityEventRequest struct {
	AccountID   uuid.UUID
	EventType   string
	Description string
	Severity    string
	IPAddress   string
	UserAgent   string
}

// GetSecurityEventsRequest represents a request to get security events
type GetSecurityEventsRequest struct {
	AccountID uuid.UUID
	EventType string
	Severity  string
	Page      int
	Limit     int
}

// GetSecurityEventsResponse represents the response from getting security events
type GetSecurityEventsResponse struct {
	Events     []*models.SecurityEvent `json:"events"`
	TotalCount int                     `json:"totalCount"`
}

package repository

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/models"
)

var securityEventColumns = []string{
	"id", "account_id", "event_type", "severity", "description", "ip_address", "user_agent", "created_at",
}

// SecurityEventFilter narrows an audit listing.
type SecurityEventFilter struct {
	AccountID *uuid.UUID
	EventType string
	Severity  string
}

type SecurityEventRepository struct {
	store
}

func NewSecurityEventRepository(db *database.DB) *SecurityEventRepository {
	return &SecurityEventRepository{store: newStore(db)}
}

func (r *SecurityEventRepository) Create(ctx context.Context, event *models.SecurityEvent) (*models.SecurityEvent, error) {
	event.ID = newID()
	event.CreatedAt = r.now()

	insert := r.builder().Insert(database.SecurityEventsTable).
		Columns(securityEventColumns...).
		Values(event.ID, event.AccountID, event.EventType, event.Severity, event.Description,
			event.IPAddress, event.UserAgent, event.CreatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("insert security event: %w", err)
	}
	return event, nil
}

// List returns matching events newest first, with the total number of matches.
func (r *SecurityEventRepository) List(ctx context.Context, filter SecurityEventFilter, page *Pagination) ([]*models.SecurityEvent, int, error) {
	preds := []*entsql.Predicate{}
	if filter.AccountID != nil {
		preds = append(preds, entsql.EQ("account_id", *filter.AccountID))
	}
	if filter.EventType != "" {
		preds = append(preds, entsql.EQ("event_type", filter.EventType))
	}
	if filter.Severity != "" {
		preds = append(preds, entsql.EQ("severity", filter.Severity))
	}

	b := r.builder()
	sel := b.Select(securityEventColumns...).
		From(b.Table(database.SecurityEventsTable)).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	countSel := b.Select(entsql.Count("*")).From(b.Table(database.SecurityEventsTable))
	if len(preds) > 0 {
		where := entsql.And(preds...)
		sel = sel.Where(where)
		countSel = countSel.Where(where)
	}

	var total int
	if err := r.get(ctx, r.db, &total, countSel); err != nil {
		return nil, 0, fmt.Errorf("count security events: %w", err)
	}

	if page != nil {
		sel = sel.Limit(page.Limit).Offset(page.Offset())
	}

	events := []*models.SecurityEvent{}
	if err := r.selectAll(ctx, r.db, &events, sel); err != nil {
		return nil, 0, fmt.Errorf("query security events: %w", err)
	}
	return events, total, nil
}

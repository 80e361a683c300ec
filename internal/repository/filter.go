package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
)

// Pagination limits
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination selects one page of a listing. A nil *Pagination means "all".
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into their accepted ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ClientFilter narrows a client listing.
type ClientFilter struct {
	// Search matches name, company or email, case-insensitively.
	Search string
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	Status   *models.ProjectStatus
	ClientID *uuid.UUID
	// Search matches name or description, case-insensitively.
	Search string
}

// TaskFilter narrows a task listing. Every set field must match.
type TaskFilter struct {
	Status        *models.TaskStatus
	Statuses      []models.TaskStatus
	ExcludeStatus *models.TaskStatus
	Priority      *models.Priority
	ProjectID     *uuid.UUID
	ClientID      *uuid.UUID
	// Search matches title or description, case-insensitively.
	Search string
	// DueFrom and DueBefore bound the due date as [DueFrom, DueBefore).
	DueFrom   *time.Time
	DueBefore *time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusPaused ProjectStatus = "paused"
	ProjectStatusClosed ProjectStatus = "closed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusClosed:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	OwnerID     uuid.UUID     `db:"owner_id" json:"-"`
	ClientID    *uuid.UUID    `db:"client_id" json:"clientId,omitempty"`
	Name        string        `db:"name" json:"name"`
	Description *string       `db:"description" json:"description,omitempty"`
	Status      ProjectStatus `db:"status" json:"status"`
	StartDate   *time.Time    `db:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time    `db:"end_date" json:"endDate,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`

	Client *ClientSummary `db:"-" json:"client,omitempty"`
}

// ProjectSummary is embedded in task responses.
type ProjectSummary struct {
	ID     uuid.UUID     `db:"id" json:"id"`
	Name   string        `db:"name" json:"name"`
	Status ProjectStatus `db:"status" json:"status"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is a Kanban column.
type TaskStatus string

// Task status constants, in board column order
const (
	TaskStatusTodo    TaskStatus = "todo"
	TaskStatusDoing   TaskStatus = "doing"
	TaskStatusBlocked TaskStatus = "blocked"
	TaskStatusReview  TaskStatus = "review"
	TaskStatusDone    TaskStatus = "done"
)

// TaskStatuses returns every status in column order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusTodo,
		TaskStatusDoing,
		TaskStatusBlocked,
		TaskStatusReview,
		TaskStatusDone,
	}
}

// Valid reports whether s is one of the five board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusBlocked, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

// Priority of a task.
type Priority string

// Priority constants
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"-"`
	ProjectID   *uuid.UUID `db:"project_id" json:"projectId,omitempty"`
	ClientID    *uuid.UUID `db:"client_id" json:"clientId,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	Priority    Priority   `db:"priority" json:"priority"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	Category    *string    `db:"category" json:"category,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	// Populated on reads that include relations.
	Project *ProjectSummary `db:"-" json:"project,omitempty"`
	Client  *ClientSummary  `db:"-" json:"client,omitempty"`
}

// Subtask belongs to a task; ownership is resolved through the task.
type Subtask struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TaskID    uuid.UUID `db:"task_id" json:"taskId"`
	Title     string    `db:"title" json:"title"`
	Done      bool      `db:"done" json:"done"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

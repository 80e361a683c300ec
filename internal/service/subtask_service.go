// internal/service/subtask_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

// SubtaskService manages checklist items. Ownership is checked through the
// parent task on every call.
type SubtaskService struct {
	subtasks *repository.SubtaskRepository
}

func NewSubtaskService(subtasks *repository.SubtaskRepository) *SubtaskService {
	return &SubtaskService{subtasks: subtasks}
}

func (s *SubtaskService) ListSubtasks(ctx context.Context, ownerID, taskID uuid.UUID) ([]*models.Subtask, error) {
	return s.subtasks.List(ctx, ownerID, taskID)
}

func (s *SubtaskService) CreateSubtask(ctx context.Context, ownerID, taskID uuid.UUID, title string) (*models.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	return s.subtasks.Create(ctx, ownerID, taskID, title)
}

func (s *SubtaskService) UpdateSubtask(ctx context.Context, ownerID, taskID, id uuid.UUID, in *repository.SubtaskUpdateInput) (*models.Subtask, error) {
	if in.Title.Set {
		if in.Title.Value == nil || strings.TrimSpace(*in.Title.Value) == "" {
			return nil, invalid("title", "is required")
		}
		in.Title = models.Some(strings.TrimSpace(*in.Title.Value))
	}
	return s.subtasks.Update(ctx, ownerID, taskID, id, in)
}

func (s *SubtaskService) DeleteSubtask(ctx context.Context, ownerID, taskID, id uuid.UUID) error {
	return s.subtasks.Delete(ctx, ownerID, taskID, id)
}

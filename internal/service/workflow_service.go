// internal/service/workflow_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

// Board groups tasks by status. Every column is present, possibly empty.
type Board map[models.TaskStatus][]*models.Task

// NewBoard returns a board with all five columns empty.
func NewBoard() Board {
	b := make(Board, len(models.TaskStatuses()))
	for _, status := range models.TaskStatuses() {
		b[status] = []*models.Task{}
	}
	return b
}

// MarshalJSON emits the columns in board order rather than map order.
func (b Board) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, status := range models.TaskStatuses() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(status))
		if err != nil {
			return nil, err
		}
		tasks := b[status]
		if tasks == nil {
			tasks = []*models.Task{}
		}
		column, err := json.Marshal(tasks)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(column)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WorkflowService owns task status changes and the Kanban projection.
// Any status may move to any other; concurrent patches are last-write-wins.
type WorkflowService struct {
	tasks *TaskService
	repo  *repository.TaskRepository
}

func NewWorkflowService(tasks *TaskService, repo *repository.TaskRepository) *WorkflowService {
	return &WorkflowService{tasks: tasks, repo: repo}
}

// Board partitions the owner's filtered tasks into the five columns,
// newest first within each column. A status filter is ignored.
func (s *WorkflowService) Board(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) (Board, error) {
	filter.Status = nil
	filter.Statuses = nil
	filter.ExcludeStatus = nil

	tasks, _, err := s.tasks.ListTasks(ctx, ownerID, filter, nil)
	if err != nil {
		return nil, err
	}

	board := NewBoard()
	for _, task := range tasks {
		if _, ok := board[task.Status]; !ok {
			return nil, fmt.Errorf("task %s has unknown status %q", task.ID, task.Status)
		}
		board[task.Status] = append(board[task.Status], task)
	}
	return board, nil
}

// PatchStatus moves a task to another column
func (s *WorkflowService) PatchStatus(ctx context.Context, ownerID, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if _, err := s.repo.UpdateStatus(ctx, ownerID, taskID, status); err != nil {
		return nil, err
	}
	return s.tasks.GetTask(ctx, ownerID, taskID)
}

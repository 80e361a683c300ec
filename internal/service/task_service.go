// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	clients  *repository.ClientRepository
}

func NewTaskService(tasks *repository.TaskRepository, projects *repository.ProjectRepository, clients *repository.ClientRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		clients:  clients,
	}
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, in *repository.TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, invalid("title", "is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, invalid("status", "must be one of todo, doing, blocked, review, done")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return nil, invalid("priority", "must be one of low, medium, high, critical")
	}
	if err := s.checkReferences(ctx, ownerID, in.ProjectID, in.ClientID); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, ownerID, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task with its project and client summaries
func (s *TaskService) GetTask(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, ownerID, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns the owner's tasks newest first. page may be nil.
func (s *TaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter, page *repository.Pagination) ([]*models.Task, int, error) {
	if err := validateTaskFilter(filter); err != nil {
		return nil, 0, err
	}
	filter.Search = strings.TrimSpace(filter.Search)

	tasks, total, err := s.tasks.List(ctx, ownerID, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachRelations(ctx, ownerID, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// UpdateTask applies a partial update. Fields left unset keep their value.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id uuid.UUID, in *repository.TaskUpdateInput) (*models.Task, error) {
	if in.Title.Set {
		if in.Title.Value == nil || strings.TrimSpace(*in.Title.Value) == "" {
			return nil, invalid("title", "is required")
		}
		in.Title = models.Some(strings.TrimSpace(*in.Title.Value))
	}
	if in.Status.Set {
		if in.Status.Value == nil || !in.Status.Value.Valid() {
			return nil, invalid("status", "must be one of todo, doing, blocked, review, done")
		}
	}
	if in.Priority.Set {
		if in.Priority.Value == nil || !in.Priority.Value.Valid() {
			return nil, invalid("priority", "must be one of low, medium, high, critical")
		}
	}

	var projectID, clientID *uuid.UUID
	if in.ProjectID.Set {
		projectID = in.ProjectID.Value
	}
	if in.ClientID.Set {
		clientID = in.ClientID.Value
	}
	if err := s.checkReferences(ctx, ownerID, projectID, clientID); err != nil {
		return nil, err
	}

	task, err := s.tasks.Update(ctx, ownerID, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, ownerID, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and its subtasks
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.tasks.Delete(ctx, ownerID, id)
}

// checkReferences rejects project or client ids the owner does not hold.
func (s *TaskService) checkReferences(ctx context.Context, ownerID uuid.UUID, projectID, clientID *uuid.UUID) error {
	if projectID != nil {
		if err := s.projects.Exists(ctx, ownerID, *projectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("projectId", "not found")
			}
			return err
		}
	}
	if clientID != nil {
		if err := s.clients.Exists(ctx, ownerID, *clientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("clientId", "not found")
			}
			return err
		}
	}
	return nil
}

func (s *TaskService) attachRelations(ctx context.Context, ownerID uuid.UUID, tasks []*models.Task) error {
	var projectIDs, clientIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, t := range tasks {
		if t.ProjectID != nil && !seen[*t.ProjectID] {
			seen[*t.ProjectID] = true
			projectIDs = append(projectIDs, *t.ProjectID)
		}
		if t.ClientID != nil && !seen[*t.ClientID] {
			seen[*t.ClientID] = true
			clientIDs = append(clientIDs, *t.ClientID)
		}
	}

	projects, err := s.projects.Summaries(ctx, ownerID, projectIDs)
	if err != nil {
		return err
	}
	clients, err := s.clients.Summaries(ctx, ownerID, clientIDs)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if t.ProjectID != nil {
			t.Project = projects[*t.ProjectID]
		}
		if t.ClientID != nil {
			t.Client = clients[*t.ClientID]
		}
	}
	return nil
}

func validateTaskFilter(filter repository.TaskFilter) error {
	if filter.Status != nil && !filter.Status.Valid() {
		return invalid("status", "must be one of todo, doing, blocked, review, done")
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return invalid("priority", "must be one of low, medium, high, critical")
	}
	return nil
}

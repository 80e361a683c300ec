// internal/service/project_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type ProjectService struct {
	projects *repository.ProjectRepository
	clients  *repository.ClientRepository
}

func NewProjectService(projects *repository.ProjectRepository, clients *repository.ClientRepository) *ProjectService {
	return &ProjectService{projects: projects, clients: clients}
}

// CreateProject validates and stores a project for ownerID. A referenced
// client must belong to the same owner.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, in *repository.ProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name", "is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, invalid("status", "must be one of active, paused, closed")
	}
	if err := checkDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if in.ClientID != nil {
		if err := s.requireClient(ctx, ownerID, *in.ClientID); err != nil {
			return nil, err
		}
	}

	project, err := s.projects.Create(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, ownerID, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, ownerID, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns the owner's projects newest first, each with its
// client summary. page may be nil.
func (s *ProjectService) ListProjects(ctx context.Context, ownerID uuid.UUID, filter repository.ProjectFilter, page *repository.Pagination) ([]*models.Project, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, invalid("status", "must be one of active, paused, closed")
	}
	filter.Search = strings.TrimSpace(filter.Search)

	projects, total, err := s.projects.List(ctx, ownerID, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachClients(ctx, ownerID, projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, ownerID, id uuid.UUID, in *repository.ProjectUpdateInput) (*models.Project, error) {
	if in.Name.Set {
		if in.Name.Value == nil || strings.TrimSpace(*in.Name.Value) == "" {
			return nil, invalid("name", "is required")
		}
		in.Name = models.Some(strings.TrimSpace(*in.Name.Value))
	}
	if in.Status.Set {
		if in.Status.Value == nil || !in.Status.Value.Valid() {
			return nil, invalid("status", "must be one of active, paused, closed")
		}
	}
	if in.ClientID.Set && in.ClientID.Value != nil {
		if err := s.requireClient(ctx, ownerID, *in.ClientID.Value); err != nil {
			return nil, err
		}
	}
	if in.StartDate.Set || in.EndDate.Set {
		current, err := s.projects.Get(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		start, end := current.StartDate, current.EndDate
		if in.StartDate.Set {
			start = in.StartDate.Value
		}
		if in.EndDate.Set {
			end = in.EndDate.Value
		}
		if err := checkDateRange(start, end); err != nil {
			return nil, err
		}
	}

	project, err := s.projects.Update(ctx, ownerID, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, ownerID, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project with its tasks and their subtasks
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.projects.Delete(ctx, ownerID, id)
}

func (s *ProjectService) requireClient(ctx context.Context, ownerID, clientID uuid.UUID) error {
	if err := s.clients.Exists(ctx, ownerID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("clientId", "not found")
		}
		return err
	}
	return nil
}

func (s *ProjectService) attachClients(ctx context.Context, ownerID uuid.UUID, projects []*models.Project) error {
	ids := make([]uuid.UUID, 0, len(projects))
	seen := make(map[uuid.UUID]bool)
	for _, p := range projects {
		if p.ClientID != nil && !seen[*p.ClientID] {
			seen[*p.ClientID] = true
			ids = append(ids, *p.ClientID)
		}
	}

	summaries, err := s.clients.Summaries(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.ClientID != nil {
			p.Client = summaries[*p.ClientID]
		}
	}
	return nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid("endDate", "must not be before startDate")
	}
	return nil
}

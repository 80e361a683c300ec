// internal/service/client_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

type ClientService struct {
	clients *repository.ClientRepository
}

func NewClientService(clients *repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// CreateClient validates and stores a client for ownerID
func (s *ClientService) CreateClient(ctx context.Context, ownerID uuid.UUID, in *repository.ClientInput) (*models.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name", "is required")
	}
	if err := validateOptionalEmail(in.Email); err != nil {
		return nil, err
	}
	return s.clients.Create(ctx, ownerID, in)
}

func (s *ClientService) GetClient(ctx context.Context, ownerID, id uuid.UUID) (*models.Client, error) {
	return s.clients.Get(ctx, ownerID, id)
}

// ListClients returns the owner's clients newest first. page may be nil.
func (s *ClientService) ListClients(ctx context.Context, ownerID uuid.UUID, filter repository.ClientFilter, page *repository.Pagination) ([]*models.Client, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.clients.List(ctx, ownerID, filter, page)
}

func (s *ClientService) UpdateClient(ctx context.Context, ownerID, id uuid.UUID, in *repository.ClientUpdateInput) (*models.Client, error) {
	if in.Name.Set {
		if in.Name.Value == nil || strings.TrimSpace(*in.Name.Value) == "" {
			return nil, invalid("name", "is required")
		}
		in.Name = models.Some(strings.TrimSpace(*in.Name.Value))
	}
	if in.Email.Set {
		if err := validateOptionalEmail(in.Email.Value); err != nil {
			return nil, err
		}
	}
	return s.clients.Update(ctx, ownerID, id, in)
}

// DeleteClient removes the client with its projects, tasks and subtasks
func (s *ClientService) DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.clients.Delete(ctx, ownerID, id)
}

func validateOptionalEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	if err := auth.ValidateEmail(strings.TrimSpace(*email)); err != nil {
		return invalid("email", err.Error())
	}
	return nil
}

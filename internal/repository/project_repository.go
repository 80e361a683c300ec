package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/models"
)

var projectColumns = []string{
	"id", "owner_id", "client_id", "name", "description", "status",
	"start_date", "end_date", "created_at", "updated_at",
}

// ProjectInput holds the fields of a new project.
type ProjectInput struct {
	ClientID    *uuid.UUID
	Name        string
	Description *string
	Status      models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectUpdateInput holds a partial project update.
type ProjectUpdateInput struct {
	ClientID    models.Optional[uuid.UUID]
	Name        models.Optional[string]
	Description models.Optional[string]
	Status      models.Optional[models.ProjectStatus]
	StartDate   models.Optional[time.Time]
	EndDate     models.Optional[time.Time]
}

type ProjectRepository struct {
	store
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{store: newStore(db)}
}

func (r *ProjectRepository) Create(ctx context.Context, ownerID uuid.UUID, in *ProjectInput) (*models.Project, error) {
	status := in.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	now := r.now()
	project := &models.Project{
		ID:          newID(),
		OwnerID:     ownerID,
		ClientID:    in.ClientID,
		Name:        in.Name,
		Description: optionalString(in.Description),
		Status:      status,
		StartDate:   utcPtr(in.StartDate),
		EndDate:     utcPtr(in.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	insert := r.builder().Insert(database.ProjectsTable).
		Columns(projectColumns...).
		Values(project.ID, project.OwnerID, project.ClientID, project.Name, project.Description,
			string(project.Status), project.StartDate, project.EndDate, project.CreatedAt, project.UpdatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	b := r.builder()
	sel := b.Select(projectColumns...).From(b.Table(database.ProjectsTable)).Where(ownedBy(ownerID, id))

	var project models.Project
	if err := r.get(ctx, r.db, &project, sel); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &project, nil
}

// List returns the owner's projects newest first, with the total number of
// matches. page may be nil to return every match.
func (r *ProjectRepository) List(ctx context.Context, ownerID uuid.UUID, filter ProjectFilter, page *Pagination) ([]*models.Project, int, error) {
	where := r.predicate(ownerID, filter)

	total, err := r.count(ctx, r.db, database.ProjectsTable, where)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	b := r.builder()
	sel := b.Select(projectColumns...).
		From(b.Table(database.ProjectsTable)).
		Where(where).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	if page != nil {
		sel = sel.Limit(page.Limit).Offset(page.Offset())
	}

	projects := []*models.Project{}
	if err := r.selectAll(ctx, r.db, &projects, sel); err != nil {
		return nil, 0, fmt.Errorf("query projects: %w", err)
	}
	return projects, total, nil
}

// Count returns the number of the owner's projects matching filter.
func (r *ProjectRepository) Count(ctx context.Context, ownerID uuid.UUID, filter ProjectFilter) (int, error) {
	return r.count(ctx, r.db, database.ProjectsTable, r.predicate(ownerID, filter))
}

// Exists fails with ErrNotFound unless the project belongs to ownerID.
func (r *ProjectRepository) Exists(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.requireOwned(ctx, r.db, database.ProjectsTable, ownerID, id)
}

func (r *ProjectRepository) Update(ctx context.Context, ownerID, id uuid.UUID, in *ProjectUpdateInput) (*models.Project, error) {
	update := r.builder().Update(database.ProjectsTable).
		Set(colUpdatedAt, r.now()).
		Where(ownedBy(ownerID, id))

	if in.Name.Set && in.Name.Value != nil {
		update = update.Set("name", *in.Name.Value)
	}
	if in.Status.Set && in.Status.Value != nil {
		update = update.Set("status", string(*in.Status.Value))
	}
	setNullableString(update, "description", in.Description)
	setNullableUUID(update, "client_id", in.ClientID)
	setNullableTime(update, "start_date", in.StartDate)
	setNullableTime(update, "end_date", in.EndDate)

	affected, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ownerID, id)
}

// Delete removes the project, its tasks and their subtasks.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.requireOwned(ctx, tx, database.ProjectsTable, ownerID, id); err != nil {
			return err
		}

		if err := r.deleteTasksWhere(ctx, tx, ownerID, entsql.EQ("project_id", id)); err != nil {
			return err
		}

		if _, err := r.exec(ctx, tx, r.builder().Delete(database.ProjectsTable).Where(ownedBy(ownerID, id))); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}

// Summaries returns name/status views of the given projects keyed by id.
func (r *ProjectRepository) Summaries(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.ProjectSummary, error) {
	out := make(map[uuid.UUID]*models.ProjectSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	b := r.builder()
	sel := b.Select("id", "name", "status").
		From(b.Table(database.ProjectsTable)).
		Where(entsql.And(entsql.EQ(colOwnerID, ownerID), entsql.In(colID, idArgs(ids)...)))

	var rows []*models.ProjectSummary
	if err := r.selectAll(ctx, r.db, &rows, sel); err != nil {
		return nil, fmt.Errorf("query project summaries: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *ProjectRepository) predicate(ownerID uuid.UUID, filter ProjectFilter) *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ(colOwnerID, ownerID)}
	if filter.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*filter.Status)))
	}
	if filter.ClientID != nil {
		preds = append(preds, entsql.EQ("client_id", *filter.ClientID))
	}
	if filter.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("name", filter.Search),
			entsql.ContainsFold("description", filter.Search),
		))
	}
	return entsql.And(preds...)
}

func setNullableUUID(update *entsql.UpdateBuilder, column string, field models.Optional[uuid.UUID]) {
	if !field.Set {
		return
	}
	if field.Value == nil {
		update.SetNull(column)
		return
	}
	update.Set(column, *field.Value)
}

func setNullableTime(update *entsql.UpdateBuilder, column string, field models.Optional[time.Time]) {
	if !field.Set {
		return
	}
	if field.Value == nil {
		update.SetNull(column)
		return
	}
	update.Set(column, field.Value.UTC())
}

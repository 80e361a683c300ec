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

var taskColumns = []string{
	"id", "owner_id", "project_id", "client_id", "title", "description", "status",
	"priority", "due_date", "category", "created_at", "updated_at",
}

// Types for repository input
type TaskInput struct {
	ProjectID   *uuid.UUID
	ClientID    *uuid.UUID
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.Priority
	DueDate     *time.Time
	Category    *string
}

type TaskUpdateInput struct {
	ProjectID   models.Optional[uuid.UUID]
	ClientID    models.Optional[uuid.UUID]
	Title       models.Optional[string]
	Description models.Optional[string]
	Status      models.Optional[models.TaskStatus]
	Priority    models.Optional[models.Priority]
	DueDate     models.Optional[time.Time]
	Category    models.Optional[string]
}

type TaskRepository struct {
	store
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{store: newStore(db)}
}

func (r *TaskRepository) Create(ctx context.Context, ownerID uuid.UUID, in *TaskInput) (*models.Task, error) {
	status := in.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := r.now()
	task := &models.Task{
		ID:          newID(),
		OwnerID:     ownerID,
		ProjectID:   in.ProjectID,
		ClientID:    in.ClientID,
		Title:       in.Title,
		Description: optionalString(in.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     utcPtr(in.DueDate),
		Category:    optionalString(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	insert := r.builder().Insert(database.TasksTable).
		Columns(taskColumns...).
		Values(task.ID, task.OwnerID, task.ProjectID, task.ClientID, task.Title, task.Description,
			string(task.Status), string(task.Priority), task.DueDate, task.Category,
			task.CreatedAt, task.UpdatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	b := r.builder()
	sel := b.Select(taskColumns...).From(b.Table(database.TasksTable)).Where(ownedBy(ownerID, id))

	var task models.Task
	if err := r.get(ctx, r.db, &task, sel); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// List returns the owner's tasks newest first, with the total number of
// matches. page may be nil to return every match.
func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter, page *Pagination) ([]*models.Task, int, error) {
	where := r.predicate(ownerID, filter)

	total, err := r.count(ctx, r.db, database.TasksTable, where)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	b := r.builder()
	sel := b.Select(taskColumns...).
		From(b.Table(database.TasksTable)).
		Where(where).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	if page != nil {
		sel = sel.Limit(page.Limit).Offset(page.Offset())
	}

	tasks := []*models.Task{}
	if err := r.selectAll(ctx, r.db, &tasks, sel); err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, total, nil
}

// Count returns the number of the owner's tasks matching filter.
func (r *TaskRepository) Count(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) (int, error) {
	n, err := r.count(ctx, r.db, database.TasksTable, r.predicate(ownerID, filter))
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, in *TaskUpdateInput) (*models.Task, error) {
	update := r.builder().Update(database.TasksTable).
		Set(colUpdatedAt, r.now()).
		Where(ownedBy(ownerID, id))

	if in.Title.Set && in.Title.Value != nil {
		update = update.Set("title", *in.Title.Value)
	}
	if in.Status.Set && in.Status.Value != nil {
		update = update.Set("status", string(*in.Status.Value))
	}
	if in.Priority.Set && in.Priority.Value != nil {
		update = update.Set("priority", string(*in.Priority.Value))
	}
	setNullableUUID(update, "project_id", in.ProjectID)
	setNullableUUID(update, "client_id", in.ClientID)
	setNullableString(update, "description", in.Description)
	setNullableString(update, "category", in.Category)
	setNullableTime(update, "due_date", in.DueDate)

	affected, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ownerID, id)
}

// UpdateStatus writes only the status column. Concurrent writers are not
// serialized; the last statement to commit wins.
func (r *TaskRepository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	update := r.builder().Update(database.TasksTable).
		Set("status", string(status)).
		Set(colUpdatedAt, r.now()).
		Where(ownedBy(ownerID, id))

	affected, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ownerID, id)
}

// Delete removes the task and its subtasks.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.requireOwned(ctx, tx, database.TasksTable, ownerID, id); err != nil {
			return err
		}
		return r.deleteTasksWhere(ctx, tx, ownerID, entsql.EQ(colID, id))
	})
}

// Exists fails with ErrNotFound unless the task belongs to ownerID.
func (r *TaskRepository) Exists(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.requireOwned(ctx, r.db, database.TasksTable, ownerID, id)
}

// deleteTasksWhere deletes the owner's tasks matching where, subtasks first.
// It must run inside the caller's transaction.
func (s store) deleteTasksWhere(ctx context.Context, tx querier, ownerID uuid.UUID, where *entsql.Predicate) error {
	b := s.builder()
	scope := entsql.And(entsql.EQ(colOwnerID, ownerID), where)

	var taskIDs []uuid.UUID
	sel := b.Select(colID).From(b.Table(database.TasksTable)).Where(scope)
	if err := s.selectAll(ctx, tx, &taskIDs, sel); err != nil {
		return fmt.Errorf("collect tasks: %w", err)
	}
	if len(taskIDs) == 0 {
		return nil
	}

	ids := idArgs(taskIDs)
	if _, err := s.exec(ctx, tx, b.Delete(database.SubtasksTable).Where(entsql.In("task_id", ids...))); err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}
	del := b.Delete(database.TasksTable).Where(entsql.And(entsql.EQ(colOwnerID, ownerID), entsql.In(colID, ids...)))
	if _, err := s.exec(ctx, tx, del); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) predicate(ownerID uuid.UUID, filter TaskFilter) *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ(colOwnerID, ownerID)}

	if filter.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*filter.Status)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]any, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		preds = append(preds, entsql.In("status", statuses...))
	}
	if filter.ExcludeStatus != nil {
		preds = append(preds, entsql.NEQ("status", string(*filter.ExcludeStatus)))
	}
	if filter.Priority != nil {
		preds = append(preds, entsql.EQ("priority", string(*filter.Priority)))
	}
	if filter.ProjectID != nil {
		preds = append(preds, entsql.EQ("project_id", *filter.ProjectID))
	}
	if filter.ClientID != nil {
		preds = append(preds, entsql.EQ("client_id", *filter.ClientID))
	}
	if filter.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("title", filter.Search),
			entsql.ContainsFold("description", filter.Search),
		))
	}
	if filter.DueFrom != nil {
		preds = append(preds, entsql.GTE("due_date", filter.DueFrom.UTC()))
	}
	if filter.DueBefore != nil {
		preds = append(preds, entsql.LT("due_date", filter.DueBefore.UTC()))
	}

	return entsql.And(preds...)
}

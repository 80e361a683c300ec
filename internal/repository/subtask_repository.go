package repository

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/models"
)

var subtaskColumns = []string{"id", "task_id", "title", "done", "created_at"}

type SubtaskUpdateInput struct {
	Title models.Optional[string]
	Done  models.Optional[bool]
}

// SubtaskRepository never authorizes by subtask id alone: every call first
// resolves the parent task under the owner filter.
type SubtaskRepository struct {
	store
}

func NewSubtaskRepository(db *database.DB) *SubtaskRepository {
	return &SubtaskRepository{store: newStore(db)}
}

// List returns the task's subtasks oldest first.
func (r *SubtaskRepository) List(ctx context.Context, ownerID, taskID uuid.UUID) ([]*models.Subtask, error) {
	if err := r.requireOwned(ctx, r.db, database.TasksTable, ownerID, taskID); err != nil {
		return nil, err
	}

	b := r.builder()
	sel := b.Select(subtaskColumns...).
		From(b.Table(database.SubtasksTable)).
		Where(entsql.EQ("task_id", taskID)).
		OrderBy(colCreatedAt, colID)

	subtasks := []*models.Subtask{}
	if err := r.selectAll(ctx, r.db, &subtasks, sel); err != nil {
		return nil, fmt.Errorf("query subtasks: %w", err)
	}
	return subtasks, nil
}

func (r *SubtaskRepository) Create(ctx context.Context, ownerID, taskID uuid.UUID, title string) (*models.Subtask, error) {
	if err := r.requireOwned(ctx, r.db, database.TasksTable, ownerID, taskID); err != nil {
		return nil, err
	}

	subtask := &models.Subtask{
		ID:        newID(),
		TaskID:    taskID,
		Title:     title,
		CreatedAt: r.now(),
	}

	insert := r.builder().Insert(database.SubtasksTable).
		Columns(subtaskColumns...).
		Values(subtask.ID, subtask.TaskID, subtask.Title, subtask.Done, subtask.CreatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("insert subtask: %w", err)
	}
	return subtask, nil
}

func (r *SubtaskRepository) Update(ctx context.Context, ownerID, taskID, id uuid.UUID, in *SubtaskUpdateInput) (*models.Subtask, error) {
	if err := r.requireOwned(ctx, r.db, database.TasksTable, ownerID, taskID); err != nil {
		return nil, err
	}

	if (in.Title.Set && in.Title.Value != nil) || (in.Done.Set && in.Done.Value != nil) {
		update := r.builder().Update(database.SubtasksTable).Where(r.belongsTo(taskID, id))
		if in.Title.Set && in.Title.Value != nil {
			update = update.Set("title", *in.Title.Value)
		}
		if in.Done.Set && in.Done.Value != nil {
			update = update.Set("done", *in.Done.Value)
		}
		affected, err := r.exec(ctx, r.db, update)
		if err != nil {
			return nil, fmt.Errorf("update subtask: %w", err)
		}
		if affected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.find(ctx, taskID, id)
}

func (r *SubtaskRepository) Delete(ctx context.Context, ownerID, taskID, id uuid.UUID) error {
	if err := r.requireOwned(ctx, r.db, database.TasksTable, ownerID, taskID); err != nil {
		return err
	}

	affected, err := r.exec(ctx, r.db, r.builder().Delete(database.SubtasksTable).Where(r.belongsTo(taskID, id)))
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubtaskRepository) find(ctx context.Context, taskID, id uuid.UUID) (*models.Subtask, error) {
	b := r.builder()
	sel := b.Select(subtaskColumns...).From(b.Table(database.SubtasksTable)).Where(r.belongsTo(taskID, id))

	var subtask models.Subtask
	if err := r.get(ctx, r.db, &subtask, sel); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subtask: %w", err)
	}
	return &subtask, nil
}

func (r *SubtaskRepository) belongsTo(taskID, id uuid.UUID) *entsql.Predicate {
	return entsql.And(entsql.EQ(colID, id), entsql.EQ("task_id", taskID))
}

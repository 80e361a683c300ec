package repository

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/models"
)

var clientColumns = []string{"id", "owner_id", "name", "company", "email", "phone", "notes", "created_at", "updated_at"}

// ClientInput holds the fields of a new client.
type ClientInput struct {
	Name    string
	Company *string
	Email   *string
	Phone   *string
	Notes   *string
}

// ClientUpdateInput holds a partial client update.
type ClientUpdateInput struct {
	Name    models.Optional[string]
	Company models.Optional[string]
	Email   models.Optional[string]
	Phone   models.Optional[string]
	Notes   models.Optional[string]
}

type ClientRepository struct {
	store
}

func NewClientRepository(db *database.DB) *ClientRepository {
	return &ClientRepository{store: newStore(db)}
}

func (r *ClientRepository) Create(ctx context.Context, ownerID uuid.UUID, in *ClientInput) (*models.Client, error) {
	now := r.now()
	client := &models.Client{
		ID:        newID(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Company:   optionalString(in.Company),
		Email:     optionalString(in.Email),
		Phone:     optionalString(in.Phone),
		Notes:     optionalString(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	insert := r.builder().Insert(database.ClientsTable).
		Columns(clientColumns...).
		Values(client.ID, client.OwnerID, client.Name, client.Company, client.Email,
			client.Phone, client.Notes, client.CreatedAt, client.UpdatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

func (r *ClientRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Client, error) {
	b := r.builder()
	sel := b.Select(clientColumns...).From(b.Table(database.ClientsTable)).Where(ownedBy(ownerID, id))

	var client models.Client
	if err := r.get(ctx, r.db, &client, sel); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &client, nil
}

// List returns the owner's clients newest first, with the total number of
// matches. page may be nil to return every match.
func (r *ClientRepository) List(ctx context.Context, ownerID uuid.UUID, filter ClientFilter, page *Pagination) ([]*models.Client, int, error) {
	where := r.predicate(ownerID, filter)

	total, err := r.count(ctx, r.db, database.ClientsTable, where)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	b := r.builder()
	sel := b.Select(clientColumns...).
		From(b.Table(database.ClientsTable)).
		Where(where).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	if page != nil {
		sel = sel.Limit(page.Limit).Offset(page.Offset())
	}

	clients := []*models.Client{}
	if err := r.selectAll(ctx, r.db, &clients, sel); err != nil {
		return nil, 0, fmt.Errorf("query clients: %w", err)
	}
	return clients, total, nil
}

func (r *ClientRepository) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return r.count(ctx, r.db, database.ClientsTable, entsql.EQ(colOwnerID, ownerID))
}

// Exists fails with ErrNotFound unless the client belongs to ownerID.
func (r *ClientRepository) Exists(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.requireOwned(ctx, r.db, database.ClientsTable, ownerID, id)
}

func (r *ClientRepository) Update(ctx context.Context, ownerID, id uuid.UUID, in *ClientUpdateInput) (*models.Client, error) {
	update := r.builder().Update(database.ClientsTable).
		Set(colUpdatedAt, r.now()).
		Where(ownedBy(ownerID, id))

	if in.Name.Set && in.Name.Value != nil {
		update = update.Set("name", *in.Name.Value)
	}
	setNullableString(update, "company", in.Company)
	setNullableString(update, "email", in.Email)
	setNullableString(update, "phone", in.Phone)
	setNullableString(update, "notes", in.Notes)

	affected, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ownerID, id)
}

// Delete removes the client together with its projects, every task that
// references the client or one of those projects, and their subtasks.
func (r *ClientRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.requireOwned(ctx, tx, database.ClientsTable, ownerID, id); err != nil {
			return err
		}

		b := r.builder()
		var projectIDs []uuid.UUID
		projects := b.Select(colID).From(b.Table(database.ProjectsTable)).
			Where(entsql.And(entsql.EQ(colOwnerID, ownerID), entsql.EQ("client_id", id)))
		if err := r.selectAll(ctx, tx, &projectIDs, projects); err != nil {
			return fmt.Errorf("collect client projects: %w", err)
		}

		taskRefs := []*entsql.Predicate{entsql.EQ("client_id", id)}
		if len(projectIDs) > 0 {
			taskRefs = append(taskRefs, entsql.In("project_id", idArgs(projectIDs)...))
		}
		if err := r.deleteTasksWhere(ctx, tx, ownerID, entsql.Or(taskRefs...)); err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			del := b.Delete(database.ProjectsTable).
				Where(entsql.And(entsql.EQ(colOwnerID, ownerID), entsql.In(colID, idArgs(projectIDs)...)))
			if _, err := r.exec(ctx, tx, del); err != nil {
				return fmt.Errorf("delete client projects: %w", err)
			}
		}

		if _, err := r.exec(ctx, tx, b.Delete(database.ClientsTable).Where(ownedBy(ownerID, id))); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		return nil
	})
}

// Summaries returns name/company views of the given clients keyed by id.
func (r *ClientRepository) Summaries(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.ClientSummary, error) {
	out := make(map[uuid.UUID]*models.ClientSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	b := r.builder()
	sel := b.Select("id", "name", "company").
		From(b.Table(database.ClientsTable)).
		Where(entsql.And(entsql.EQ(colOwnerID, ownerID), entsql.In(colID, idArgs(ids)...)))

	var rows []*models.ClientSummary
	if err := r.selectAll(ctx, r.db, &rows, sel); err != nil {
		return nil, fmt.Errorf("query client summaries: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *ClientRepository) predicate(ownerID uuid.UUID, filter ClientFilter) *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ(colOwnerID, ownerID)}
	if filter.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("name", filter.Search),
			entsql.ContainsFold("company", filter.Search),
			entsql.ContainsFold("email", filter.Search),
		))
	}
	return entsql.And(preds...)
}

func setNullableString(update *entsql.UpdateBuilder, column string, field models.Optional[string]) {
	if !field.Set {
		return
	}
	if v := optionalString(field.Value); v != nil {
		update.Set(column, *v)
		return
	}
	update.SetNull(column)
}

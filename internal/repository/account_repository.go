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

var accountColumns = []string{"id", "name", "email", "password_hash", "created_at"}

type AccountRepository struct {
	store
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{store: newStore(db)}
}

// Create stores a new account. email must already be normalized; a second
// account with the same email fails with ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.Account, error) {
	account := &models.Account{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.now(),
	}

	insert := r.builder().Insert(database.AccountsTable).
		Columns(accountColumns...).
		Values(account.ID, account.Name, account.Email, account.PasswordHash, account.CreatedAt)

	if _, err := r.exec(ctx, r.db, insert); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.getWhere(ctx, entsql.EQ(colID, id))
}

// GetByEmail looks an account up by its normalized email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getWhere(ctx, entsql.EQ("email", email))
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.count(ctx, r.db, database.AccountsTable, entsql.EQ("email", email))
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) getWhere(ctx context.Context, p *entsql.Predicate) (*models.Account, error) {
	b := r.builder()
	sel := b.Select(accountColumns...).From(b.Table(database.AccountsTable)).Where(p)

	var account models.Account
	if err := r.get(ctx, r.db, &account, sel); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

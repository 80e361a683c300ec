package database

import (
	"context"
	"fmt"
	"log"

	"entgo.io/ent/dialect/sql/schema"
)

// Migrate creates or updates every table, index and foreign key.
func (db *DB) Migrate(ctx context.Context) error {
	log.Println("[INFO] Running database migrations...")

	m, err := schema.NewMigrate(
		db.EntDriver(),
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}

	log.Println("[INFO] Migrations completed")
	return nil
}

package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/database/dbtest"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "mysql"})
	assert.Error(t, err)
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := dbtest.Open(t)

	for _, table := range []string{
		database.AccountsTable,
		database.ClientsTable,
		database.ProjectsTable,
		database.TasksTable,
		database.SubtasksTable,
		database.SecurityEventsTable,
	} {
		var n int
		err := db.GetContext(context.Background(), &n,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := dbtest.Open(t)
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := dbtest.Open(t)

	var enabled int
	require.NoError(t, db.GetContext(context.Background(), &enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/database/dbtest"
	"github.com/gurkanbulca/workdesk/internal/models"
)

type repos struct {
	db       *database.DB
	accounts *AccountRepository
	clients  *ClientRepository
	projects *ProjectRepository
	tasks    *TaskRepository
	subtasks *SubtaskRepository
	events   *SecurityEventRepository
}

func setupRepos(t *testing.T) *repos {
	db := dbtest.Open(t)
	return &repos{
		db:       db,
		accounts: NewAccountRepository(db),
		clients:  NewClientRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
		subtasks: NewSubtaskRepository(db),
		events:   NewSecurityEventRepository(db),
	}
}

func (r *repos) account(t *testing.T, email string) uuid.UUID {
	t.Helper()
	account, err := r.accounts.Create(context.Background(), "Test", email, "hash")
	require.NoError(t, err)
	return account.ID
}

func (r *repos) task(t *testing.T, owner uuid.UUID, in TaskInput) *models.Task {
	t.Helper()
	task, err := r.tasks.Create(context.Background(), owner, &in)
	require.NoError(t, err)
	return task
}

func (r *repos) rowCount(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func ptr[T any](v T) *T { return &v }

func TestAccountRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	created, err := r.accounts.Create(ctx, "Ada", "ada@example.com", "hash")
	require.NoError(t, err)

	_, err = r.accounts.Create(ctx, "Other Ada", "ada@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := r.accounts.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ada", found.Name)

	exists, err := r.accounts.ExistsByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = r.accounts.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientRepository_OwnershipIsolation(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	alice := r.account(t, "alice@example.com")
	bob := r.account(t, "bob@example.com")

	client, err := r.clients.Create(ctx, alice, &ClientInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = r.clients.Get(ctx, bob, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.clients.Update(ctx, bob, client.ID, &ClientUpdateInput{Name: models.Some("Stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, r.clients.Delete(ctx, bob, client.ID), ErrNotFound)

	list, total, err := r.clients.List(ctx, bob, ClientFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	got, err := r.clients.Get(ctx, alice, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}

func TestClientRepository_ListSearchAndPagination(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	names := []string{"Acme", "Globex", "Initech", "Umbrella", "Acme Labs"}
	for _, name := range names {
		_, err := r.clients.Create(ctx, owner, &ClientInput{Name: name})
		require.NoError(t, err)
	}

	all, total, err := r.clients.List(ctx, owner, ClientFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, all, 5)
	assert.Equal(t, "Acme Labs", all[0].Name, "newest first")
	assert.Equal(t, "Acme", all[4].Name)

	matches, total, err := r.clients.List(ctx, owner, ClientFilter{Search: "ACME"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, matches, 2)

	page := Pagination{Page: 3, Limit: 2}.Normalize()
	paged, total, err := r.clients.List(ctx, owner, ClientFilter{}, &page)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, paged, 1)
	assert.Equal(t, "Acme", paged[0].Name)
}

func TestClientRepository_UpdateClearsNullableFields(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	client, err := r.clients.Create(ctx, owner, &ClientInput{
		Name:    "Acme",
		Company: ptr("Acme Corp"),
		Phone:   ptr("555-0100"),
	})
	require.NoError(t, err)

	updated, err := r.clients.Update(ctx, owner, client.ID, &ClientUpdateInput{
		Company: models.Null[string](),
		Notes:   models.Some("VIP"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Nil(t, updated.Company)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0100", *updated.Phone)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "VIP", *updated.Notes)
}

func TestClientRepository_DeleteCascades(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	client, err := r.clients.Create(ctx, owner, &ClientInput{Name: "Acme"})
	require.NoError(t, err)
	other, err := r.clients.Create(ctx, owner, &ClientInput{Name: "Globex"})
	require.NoError(t, err)
	project, err := r.projects.Create(ctx, owner, &ProjectInput{Name: "Redesign", ClientID: &client.ID})
	require.NoError(t, err)

	viaProject := r.task(t, owner, TaskInput{Title: "via project", ProjectID: &project.ID})
	viaClient := r.task(t, owner, TaskInput{Title: "via client", ClientID: &client.ID})
	unrelated := r.task(t, owner, TaskInput{Title: "unrelated", ClientID: &other.ID})

	for _, task := range []*models.Task{viaProject, viaClient, unrelated} {
		_, err := r.subtasks.Create(ctx, owner, task.ID, "step")
		require.NoError(t, err)
	}

	require.NoError(t, r.clients.Delete(ctx, owner, client.ID))

	_, err = r.clients.Get(ctx, owner, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.projects.Get(ctx, owner, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.tasks.Get(ctx, owner, viaProject.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.tasks.Get(ctx, owner, viaClient.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.tasks.Get(ctx, owner, unrelated.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, r.rowCount(t, database.SubtasksTable))
	assert.Equal(t, 1, r.rowCount(t, database.TasksTable))
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	client, err := r.clients.Create(ctx, owner, &ClientInput{Name: "Acme"})
	require.NoError(t, err)
	project, err := r.projects.Create(ctx, owner, &ProjectInput{Name: "Redesign", ClientID: &client.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusActive, project.Status)

	task := r.task(t, owner, TaskInput{Title: "wireframes", ProjectID: &project.ID, ClientID: &client.ID})
	_, err = r.subtasks.Create(ctx, owner, task.ID, "sketch")
	require.NoError(t, err)

	require.NoError(t, r.projects.Delete(ctx, owner, project.ID))

	_, err = r.tasks.Get(ctx, owner, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, r.rowCount(t, database.SubtasksTable))

	_, err = r.clients.Get(ctx, owner, client.ID)
	assert.NoError(t, err, "client survives its project")
}

func TestProjectRepository_ListFilters(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	client, err := r.clients.Create(ctx, owner, &ClientInput{Name: "Acme"})
	require.NoError(t, err)
	_, err = r.projects.Create(ctx, owner, &ProjectInput{Name: "Website Redesign", ClientID: &client.ID})
	require.NoError(t, err)
	_, err = r.projects.Create(ctx, owner, &ProjectInput{Name: "Mobile App", Status: models.ProjectStatusPaused})
	require.NoError(t, err)

	paused := models.ProjectStatusPaused
	tests := []struct {
		name     string
		filter   ProjectFilter
		expected int
	}{
		{"all", ProjectFilter{}, 2},
		{"by status", ProjectFilter{Status: &paused}, 1},
		{"by client", ProjectFilter{ClientID: &client.ID}, 1},
		{"by search", ProjectFilter{Search: "redesign"}, 1},
		{"no match", ProjectFilter{Search: "nothing"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := r.projects.List(ctx, owner, tt.filter, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
			assert.Len(t, list, tt.expected)
		})
	}
}

func TestTaskRepository_CreateDefaults(t *testing.T) {
	r := setupRepos(t)
	owner := r.account(t, "owner@example.com")

	task := r.task(t, owner, TaskInput{Title: "write copy", Description: ptr("")})
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.Description, "empty strings are stored as null")
	assert.Equal(t, owner, task.OwnerID)

	got, err := r.tasks.Get(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.WithinDuration(t, task.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")
	stranger := r.account(t, "stranger@example.com")

	base := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	r.task(t, owner, TaskInput{Title: "Draft proposal", Status: models.TaskStatusTodo, Priority: models.PriorityHigh, DueDate: ptr(base)})
	r.task(t, owner, TaskInput{Title: "Review contract", Description: ptr("Legal PROPOSAL notes"), Status: models.TaskStatusReview, DueDate: ptr(base.Add(48 * time.Hour))})
	r.task(t, owner, TaskInput{Title: "Ship release", Status: models.TaskStatusDone, Priority: models.PriorityCritical})
	r.task(t, stranger, TaskInput{Title: "Draft proposal"})

	todo := models.TaskStatusTodo
	done := models.TaskStatusDone
	high := models.PriorityHigh
	dueFrom := base.Add(24 * time.Hour)
	dueBefore := base.Add(72 * time.Hour)
	until := base.Add(time.Hour)

	tests := []struct {
		name     string
		filter   TaskFilter
		expected []string
	}{
		{"all newest first", TaskFilter{}, []string{"Ship release", "Review contract", "Draft proposal"}},
		{"status", TaskFilter{Status: &todo}, []string{"Draft proposal"}},
		{"statuses", TaskFilter{Statuses: []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusDone}}, []string{"Ship release", "Draft proposal"}},
		{"exclude status", TaskFilter{ExcludeStatus: &done}, []string{"Review contract", "Draft proposal"}},
		{"priority", TaskFilter{Priority: &high}, []string{"Draft proposal"}},
		{"search title or description", TaskFilter{Search: "proposal"}, []string{"Review contract", "Draft proposal"}},
		{"due window", TaskFilter{DueFrom: &dueFrom, DueBefore: &dueBefore}, []string{"Review contract"}},
		{"due before skips undated", TaskFilter{DueBefore: &until}, []string{"Draft proposal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := r.tasks.List(ctx, owner, tt.filter, nil)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expected), total)

			titles := make([]string, len(tasks))
			for i, task := range tasks {
				titles[i] = task.Title
			}
			assert.Equal(t, tt.expected, titles)

			count, err := r.tasks.Count(ctx, owner, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, total, count)
		})
	}
}

func TestTaskRepository_UpdatePartial(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	project, err := r.projects.Create(ctx, owner, &ProjectInput{Name: "Redesign"})
	require.NoError(t, err)
	task := r.task(t, owner, TaskInput{
		Title:       "wireframes",
		Description: ptr("first pass"),
		ProjectID:   &project.ID,
		Category:    ptr("design"),
	})

	updated, err := r.tasks.Update(ctx, owner, task.ID, &TaskUpdateInput{
		Priority:    models.Some(models.PriorityHigh),
		Description: models.Null[string](),
		ProjectID:   models.Null[uuid.UUID](),
	})
	require.NoError(t, err)
	assert.Equal(t, "wireframes", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.ProjectID)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "design", *updated.Category)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")
	stranger := r.account(t, "stranger@example.com")
	task := r.task(t, owner, TaskInput{Title: "card"})

	_, err := r.tasks.UpdateStatus(ctx, stranger, task.ID, models.TaskStatusDone)
	assert.ErrorIs(t, err, ErrNotFound)

	// Out-of-order patches: whichever write lands last is kept.
	for _, status := range []models.TaskStatus{models.TaskStatusReview, models.TaskStatusDoing, models.TaskStatusBlocked} {
		_, err := r.tasks.UpdateStatus(ctx, owner, task.ID, status)
		require.NoError(t, err)
	}

	got, err := r.tasks.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusBlocked, got.Status)
}

func TestTaskRepository_DeleteRemovesSubtasks(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")
	stranger := r.account(t, "stranger@example.com")
	task := r.task(t, owner, TaskInput{Title: "card"})
	_, err := r.subtasks.Create(ctx, owner, task.ID, "step")
	require.NoError(t, err)

	assert.ErrorIs(t, r.tasks.Delete(ctx, stranger, task.ID), ErrNotFound)
	require.NoError(t, r.tasks.Delete(ctx, owner, task.ID))
	assert.Zero(t, r.rowCount(t, database.SubtasksTable))
	assert.ErrorIs(t, r.tasks.Delete(ctx, owner, task.ID), ErrNotFound)
}

func TestSubtaskRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")
	stranger := r.account(t, "stranger@example.com")

	task := r.task(t, owner, TaskInput{Title: "launch"})
	otherTask := r.task(t, owner, TaskInput{Title: "follow up"})

	first, err := r.subtasks.Create(ctx, owner, task.ID, "first")
	require.NoError(t, err)
	second, err := r.subtasks.Create(ctx, owner, task.ID, "second")
	require.NoError(t, err)

	list, err := r.subtasks.List(ctx, owner, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "creation order")
	assert.Equal(t, second.ID, list[1].ID)

	t.Run("foreign owner", func(t *testing.T) {
		_, err := r.subtasks.List(ctx, stranger, task.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = r.subtasks.Create(ctx, stranger, task.ID, "sneaky")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = r.subtasks.Update(ctx, stranger, task.ID, first.ID, &SubtaskUpdateInput{Done: models.Some(true)})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, r.subtasks.Delete(ctx, stranger, task.ID, first.ID), ErrNotFound)
	})

	t.Run("subtask of another task", func(t *testing.T) {
		_, err := r.subtasks.Update(ctx, owner, otherTask.ID, first.ID, &SubtaskUpdateInput{Done: models.Some(true)})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, r.subtasks.Delete(ctx, owner, otherTask.ID, first.ID), ErrNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		updated, err := r.subtasks.Update(ctx, owner, task.ID, first.ID, &SubtaskUpdateInput{
			Title: models.Some("first, revised"),
			Done:  models.Some(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "first, revised", updated.Title)
		assert.True(t, updated.Done)

		require.NoError(t, r.subtasks.Delete(ctx, owner, task.ID, second.ID))
		list, err := r.subtasks.List(ctx, owner, task.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestSecurityEventRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	owner := r.account(t, "owner@example.com")

	_, err := r.events.Create(ctx, &models.SecurityEvent{
		AccountID:   &owner,
		EventType:   "login_success",
		Severity:    "low",
		Description: "ok",
		IPAddress:   "10.0.0.1",
	})
	require.NoError(t, err)
	_, err = r.events.Create(ctx, &models.SecurityEvent{
		EventType:   "login_failed",
		Severity:    "medium",
		Description: "unknown email",
	})
	require.NoError(t, err)

	events, total, err := r.events.List(ctx, SecurityEventFilter{AccountID: &owner}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "login_success", events[0].EventType)
	assert.Equal(t, "10.0.0.1", events[0].IPAddress)

	_, total, err = r.events.List(ctx, SecurityEventFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		in       Pagination
		expected Pagination
		offset   int
	}{
		{Pagination{}, Pagination{Page: 1, Limit: DefaultPageLimit}, 0},
		{Pagination{Page: 3, Limit: 10}, Pagination{Page: 3, Limit: 10}, 20},
		{Pagination{Page: -1, Limit: 1000}, Pagination{Page: 1, Limit: MaxPageLimit}, 0},
	}

	for _, tt := range tests {
		got := tt.in.Normalize()
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, tt.offset, got.Offset())
	}
}

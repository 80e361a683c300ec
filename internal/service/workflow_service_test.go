// internal/service/workflow_service_test.go
package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

func TestWorkflowService_EmptyBoardHasAllColumns(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.CreateTestAccount("owner@example.com")

	board, err := env.workflow.Board(context.Background(), owner, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, board, 5)
	for _, status := range models.TaskStatuses() {
		column, ok := board[status]
		assert.True(t, ok, "column %s", status)
		assert.NotNil(t, column)
		assert.Empty(t, column)
	}

	body, err := json.Marshal(board)
	require.NoError(t, err)
	assert.Equal(t, `{"todo":[],"doing":[],"blocked":[],"review":[],"done":[]}`, string(body))
}

func TestWorkflowService_BoardPartitionsTasks(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.CreateTestAccount("owner@example.com")
	stranger := env.CreateTestAccount("stranger@example.com")

	project, err := env.projects.CreateProject(ctx, owner, &repository.ProjectInput{Name: "Redesign"})
	require.NoError(t, err)

	create := func(title string, status models.TaskStatus, projectID *uuid.UUID) *models.Task {
		task, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: title, Status: status, ProjectID: projectID})
		require.NoError(t, err)
		return task
	}
	first := create("first", models.TaskStatusTodo, &project.ID)
	second := create("second", models.TaskStatusTodo, &project.ID)
	create("blocked", models.TaskStatusBlocked, nil)
	create("shipped", models.TaskStatusDone, &project.ID)
	_, err = env.tasks.CreateTask(ctx, stranger, &repository.TaskInput{Title: "not mine"})
	require.NoError(t, err)

	board, err := env.workflow.Board(ctx, owner, repository.TaskFilter{})
	require.NoError(t, err)

	total := 0
	for _, column := range board {
		total += len(column)
	}
	assert.Equal(t, 4, total, "columns sum to the owner's task count")

	require.Len(t, board[models.TaskStatusTodo], 2)
	assert.Equal(t, second.ID, board[models.TaskStatusTodo][0].ID, "newest first within a column")
	assert.Equal(t, first.ID, board[models.TaskStatusTodo][1].ID)
	assert.Len(t, board[models.TaskStatusBlocked], 1)
	assert.Empty(t, board[models.TaskStatusDoing])

	filtered, err := env.workflow.Board(ctx, owner, repository.TaskFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	assert.Len(t, filtered[models.TaskStatusTodo], 2)
	assert.Empty(t, filtered[models.TaskStatusBlocked])
	assert.Len(t, filtered[models.TaskStatusDone], 1)
}

func TestWorkflowService_PatchStatus(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.CreateTestAccount("owner@example.com")
	stranger := env.CreateTestAccount("stranger@example.com")

	task, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: "card"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		owner   uuid.UUID
		taskID  uuid.UUID
		status  models.TaskStatus
		wantErr error
	}{
		{"todo to done", owner, task.ID, models.TaskStatusDone, nil},
		{"done back to todo", owner, task.ID, models.TaskStatusTodo, nil},
		{"todo to blocked", owner, task.ID, models.TaskStatusBlocked, nil},
		{"unknown status", owner, task.ID, "archived", ErrInvalidStatus},
		{"empty status", owner, task.ID, "", ErrInvalidStatus},
		{"foreign owner", stranger, task.ID, models.TaskStatusDone, ErrNotFound},
		{"missing task", owner, uuid.New(), models.TaskStatusDone, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.workflow.PatchStatus(ctx, tt.owner, tt.taskID, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}

	got, err := env.tasks.GetTask(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusBlocked, got.Status, "failed patches leave the last good write")
}

// Acme -> Redesign -> two todo tasks -> one patched to done.
func TestWorkflow_EndToEndScenario(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.CreateTestAccount("owner@example.com")

	client, err := env.clients.CreateClient(ctx, owner, &repository.ClientInput{Name: "Acme"})
	require.NoError(t, err)
	project, err := env.projects.CreateProject(ctx, owner, &repository.ProjectInput{Name: "Redesign", ClientID: &client.ID})
	require.NoError(t, err)

	var tasks []*models.Task
	for _, title := range []string{"homepage", "pricing page"} {
		task, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{
			Title:     title,
			Status:    models.TaskStatusTodo,
			ProjectID: &project.ID,
		})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}

	_, err = env.workflow.PatchStatus(ctx, owner, tasks[1].ID, models.TaskStatusDone)
	require.NoError(t, err)

	summary, err := env.dashboard.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 50, summary.CompletionPercentage)
	assert.Equal(t, 1, summary.ClientCount)
	assert.Equal(t, 1, summary.ActiveProjectCount)

	board, err := env.workflow.Board(ctx, owner, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, board[models.TaskStatusTodo], 1)
	assert.Equal(t, tasks[0].ID, board[models.TaskStatusTodo][0].ID)
	require.Len(t, board[models.TaskStatusDone], 1)
	assert.Equal(t, tasks[1].ID, board[models.TaskStatusDone][0].ID)
}

func TestDashboardService_DayBoundaries(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.CreateTestAccount("owner@example.com")

	// env.now is 2026-03-01 12:00 UTC.
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := func(title string, at time.Time, status models.TaskStatus) {
		_, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: title, DueDate: &at, Status: status})
		require.NoError(t, err)
	}
	due("start of today", today, models.TaskStatusTodo)
	due("end of today", today.Add(24*time.Hour-time.Second), models.TaskStatusDoing)
	due("yesterday", today.Add(-time.Hour), models.TaskStatusTodo)
	due("yesterday but done", today.Add(-time.Hour), models.TaskStatusDone)
	due("tomorrow", today.AddDate(0, 0, 1), models.TaskStatusTodo)
	due("six days out", today.AddDate(0, 0, 6).Add(23*time.Hour), models.TaskStatusReview)
	due("seven days out", today.AddDate(0, 0, 7), models.TaskStatusTodo)
	_, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: "undated"})
	require.NoError(t, err)

	summary, err := env.dashboard.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TodayCount)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 2, summary.Next7DaysCount)
	assert.Equal(t, 8, summary.TotalCount)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 7, summary.PendingCount)
	assert.Equal(t, 13, summary.CompletionPercentage)
}

func TestDashboardService_TimeZone(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.CreateTestAccount("owner@example.com")

	// 2026-03-01 12:00 UTC is already 2026-03-02 01:00 in Auckland (UTC+13).
	auckland := time.FixedZone("NZDT", 13*60*60)
	dashboard := NewDashboardService(env.repos.tasks, env.repos.projects, env.repos.clients, auckland).
		WithClock(func() time.Time { return env.now })

	due := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	_, err := env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: "local today", DueDate: &due})
	require.NoError(t, err)

	summary, err := dashboard.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TodayCount)

	utcSummary, err := env.dashboard.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, utcSummary.TodayCount)

	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = env.tasks.CreateTask(ctx, owner, &repository.TaskInput{Title: "local yesterday", DueDate: &earlier})
	require.NoError(t, err)

	summary, err = dashboard.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 1, summary.TodayCount)
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		done, total, expected int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompletionPercentage(tt.done, tt.total), "%d/%d", tt.done, tt.total)
	}
}

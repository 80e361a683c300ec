// internal/service/test_helpers_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurkanbulca/workdesk/internal/database/dbtest"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

// testEnv wires every service over one migrated in-memory database.
type testEnv struct {
	t     *testing.T
	now   time.Time
	repos struct {
		accounts *repository.AccountRepository
		clients  *repository.ClientRepository
		projects *repository.ProjectRepository
		tasks    *repository.TaskRepository
		subtasks *repository.SubtaskRepository
		events   *repository.SecurityEventRepository
	}
	tokens    *auth.TokenManager
	security  *SecurityService
	auth      *AuthService
	clients   *ClientService
	projects  *ProjectService
	tasks     *TaskService
	subtasks  *SubtaskService
	workflow  *WorkflowService
	dashboard *DashboardService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)

	env := &testEnv{t: t, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	env.repos.accounts = repository.NewAccountRepository(db)
	env.repos.clients = repository.NewClientRepository(db)
	env.repos.projects = repository.NewProjectRepository(db)
	env.repos.tasks = repository.NewTaskRepository(db)
	env.repos.subtasks = repository.NewSubtaskRepository(db)
	env.repos.events = repository.NewSecurityEventRepository(db)

	env.tokens = auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour).
		WithClock(func() time.Time { return env.now })
	env.security = NewSecurityService(env.repos.events)
	env.auth = NewAuthService(
		env.repos.accounts,
		env.tokens,
		auth.NewPasswordManagerWithCost(bcrypt.MinCost, auth.DefaultPasswordPolicy()),
		NewSecurityLogger(env.security),
	)
	env.clients = NewClientService(env.repos.clients)
	env.projects = NewProjectService(env.repos.projects, env.repos.clients)
	env.tasks = NewTaskService(env.repos.tasks, env.repos.projects, env.repos.clients)
	env.subtasks = NewSubtaskService(env.repos.subtasks)
	env.workflow = NewWorkflowService(env.tasks, env.repos.tasks)
	env.dashboard = NewDashboardService(env.repos.tasks, env.repos.projects, env.repos.clients, time.UTC).
		WithClock(func() time.Time { return env.now })
	return env
}

// CreateTestAccount registers an account and returns its id
func (e *testEnv) CreateTestAccount(email string) uuid.UUID {
	e.t.Helper()
	id, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	require.NoError(e.t, err)
	return id
}

// securityEvents returns the event types recorded for accountID, newest first
func (e *testEnv) securityEvents(accountID uuid.UUID) []string {
	e.t.Helper()
	resp, err := e.security.GetSecurityEvents(context.Background(), &GetSecurityEventsRequest{AccountID: accountID})
	require.NoError(e.t, err)
	types := make([]string, len(resp.Events))
	for i, event := range resp.Events {
		types[i] = event.EventType
	}
	return types
}

func ptr[T any](v T) *T { return &v }

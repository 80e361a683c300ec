// internal/service/dashboard_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

// Summary holds the dashboard aggregates. Nothing here is stored; every
// field is counted when requested.
type Summary struct {
	TodayCount           int `json:"todayCount"`
	OverdueCount         int `json:"overdueCount"`
	Next7DaysCount       int `json:"next7DaysCount"`
	ActiveProjectCount   int `json:"activeProjectCount"`
	CompletedCount       int `json:"completedCount"`
	TotalCount           int `json:"totalCount"`
	ClientCount          int `json:"clientCount"`
	PendingCount         int `json:"pendingCount"`
	CompletionPercentage int `json:"completionPercentage"`
}

type DashboardService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	clients  *repository.ClientRepository
	location *time.Location
	now      func() time.Time
}

// NewDashboardService computes day boundaries in loc; nil means time.Local.
func NewDashboardService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	clients *repository.ClientRepository,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		tasks:    tasks,
		projects: projects,
		clients:  clients,
		location: loc,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for day boundaries.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Summary counts the owner's tasks, projects and clients.
//
//	today     due in [start of today, start of tomorrow)
//	overdue   due before start of today and not done
//	next7Days due in [start of tomorrow, start of today + 7 days)
func (s *DashboardService) Summary(ctx context.Context, ownerID uuid.UUID) (*Summary, error) {
	startOfToday, startOfTomorrow, weekEnd := s.dayBounds()
	done := models.TaskStatusDone
	active := models.ProjectStatusActive

	var summary Summary
	counts := []struct {
		name   string
		dest   *int
		filter repository.TaskFilter
	}{
		{"today", &summary.TodayCount, repository.TaskFilter{DueFrom: &startOfToday, DueBefore: &startOfTomorrow}},
		{"overdue", &summary.OverdueCount, repository.TaskFilter{DueBefore: &startOfToday, ExcludeStatus: &done}},
		{"next 7 days", &summary.Next7DaysCount, repository.TaskFilter{DueFrom: &startOfTomorrow, DueBefore: &weekEnd}},
		{"completed", &summary.CompletedCount, repository.TaskFilter{Status: &done}},
		{"total", &summary.TotalCount, repository.TaskFilter{}},
		{"pending", &summary.PendingCount, repository.TaskFilter{ExcludeStatus: &done}},
	}

	for _, c := range counts {
		n, err := s.tasks.Count(ctx, ownerID, c.filter)
		if err != nil {
			return nil, fmt.Errorf("count %s tasks: %w", c.name, err)
		}
		*c.dest = n
	}

	activeProjects, err := s.projects.Count(ctx, ownerID, repository.ProjectFilter{Status: &active})
	if err != nil {
		return nil, fmt.Errorf("count active projects: %w", err)
	}
	summary.ActiveProjectCount = activeProjects

	clients, err := s.clients.Count(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}
	summary.ClientCount = clients

	summary.CompletionPercentage = CompletionPercentage(summary.CompletedCount, summary.TotalCount)
	return &summary, nil
}

// dayBounds returns the start of today, of tomorrow and of today+7 days in
// the configured location, converted to UTC.
func (s *DashboardService) dayBounds() (time.Time, time.Time, time.Time) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), start.AddDate(0, 0, 7).UTC()
}

// CompletionPercentage is round(done/total*100), or 0 when total is 0.
func CompletionPercentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

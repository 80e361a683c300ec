// Package seed loads demo data for a fresh install.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/internal/service"
)

//go:embed demo.yaml
var demoFixture []byte

// Fixture describes one tenant and everything it owns
type Fixture struct {
	Account struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"account"`
	Clients []ClientFixture `yaml:"clients"`
}

type ClientFixture struct {
	Name     string           `yaml:"name"`
	Company  string           `yaml:"company"`
	Email    string           `yaml:"email"`
	Phone    string           `yaml:"phone"`
	Notes    string           `yaml:"notes"`
	Projects []ProjectFixture `yaml:"projects"`
}

type ProjectFixture struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Status      string        `yaml:"status"`
	Tasks       []TaskFixture `yaml:"tasks"`
}

type TaskFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Category    string `yaml:"category"`
	// DueInDays places the due date relative to the day the seed runs.
	DueInDays *int `yaml:"due_in_days"`
}

// Parse decodes a YAML fixture
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Account.Email == "" || f.Account.Password == "" {
		return nil, errors.New("fixture account needs an email and a password")
	}
	return &f, nil
}

// Demo returns the built-in demo fixture
func Demo() *Fixture {
	f, err := Parse(demoFixture)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded fixture: %v", err))
	}
	return f
}

// LoadFile reads a fixture from disk
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Result summarises what a seed run created
type Result struct {
	AccountID uuid.UUID
	Skipped   bool
	Clients   int
	Projects  int
	Tasks     int
}

// Seeder writes fixtures through the domain services so that the usual
// validation applies.
type Seeder struct {
	auth     *service.AuthService
	clients  *service.ClientService
	projects *service.ProjectService
	tasks    *service.TaskService
	now      func() time.Time
}

func NewSeeder(auth *service.AuthService, clients *service.ClientService, projects *service.ProjectService, tasks *service.TaskService) *Seeder {
	return &Seeder{
		auth:     auth,
		clients:  clients,
		projects: projects,
		tasks:    tasks,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for relative due dates.
func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	s.now = now
	return s
}

// Seed registers the fixture's account and creates its records. An account
// that already exists is left untouched and the run is reported as skipped.
func (s *Seeder) Seed(ctx context.Context, f *Fixture) (*Result, error) {
	accountID, err := s.auth.Register(ctx, service.RegisterInput{
		Name:     f.Account.Name,
		Email:    f.Account.Email,
		Password: f.Account.Password,
	})
	if errors.Is(err, service.ErrDuplicateEmail) {
		log.Printf("[INFO] seed: account %s already exists, skipping", f.Account.Email)
		return &Result{Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", f.Account.Email, err)
	}

	result := &Result{AccountID: accountID}
	today := s.now().UTC().Truncate(24 * time.Hour)

	for _, cf := range f.Clients {
		client, err := s.clients.CreateClient(ctx, accountID, &repository.ClientInput{
			Name:    cf.Name,
			Company: optional(cf.Company),
			Email:   optional(cf.Email),
			Phone:   optional(cf.Phone),
			Notes:   optional(cf.Notes),
		})
		if err != nil {
			return nil, fmt.Errorf("client %q: %w", cf.Name, err)
		}
		result.Clients++

		for _, pf := range cf.Projects {
			project, err := s.projects.CreateProject(ctx, accountID, &repository.ProjectInput{
				ClientID:    &client.ID,
				Name:        pf.Name,
				Description: optional(pf.Description),
				Status:      models.ProjectStatus(pf.Status),
			})
			if err != nil {
				return nil, fmt.Errorf("project %q: %w", pf.Name, err)
			}
			result.Projects++

			for _, tf := range pf.Tasks {
				in := &repository.TaskInput{
					ProjectID:   &project.ID,
					ClientID:    &client.ID,
					Title:       tf.Title,
					Description: optional(tf.Description),
					Status:      models.TaskStatus(tf.Status),
					Priority:    models.Priority(tf.Priority),
					Category:    optional(tf.Category),
				}
				if tf.DueInDays != nil {
					due := today.AddDate(0, 0, *tf.DueInDays)
					in.DueDate = &due
				}
				if _, err := s.tasks.CreateTask(ctx, accountID, in); err != nil {
					return nil, fmt.Errorf("task %q: %w", tf.Title, err)
				}
				result.Tasks++
			}
		}
	}

	log.Printf("[INFO] seed: created account %s with %d clients, %d projects, %d tasks",
		f.Account.Email, result.Clients, result.Projects, result.Tasks)
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// internal/api/server.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/internal/service"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

// Services are the domain operations the HTTP API exposes
type Services struct {
	Auth      *service.AuthService
	Clients   *service.ClientService
	Projects  *service.ProjectService
	Tasks     *service.TaskService
	Subtasks  *service.SubtaskService
	Workflow  *service.WorkflowService
	Dashboard *service.DashboardService
	Security  *service.SecurityLogger
}

// NewServices wires repositories and services over db. Dashboard day
// boundaries are computed in loc.
func NewServices(db *database.DB, tokens *auth.TokenManager, passwords *auth.PasswordManager, loc *time.Location) Services {
	accounts := repository.NewAccountRepository(db)
	clients := repository.NewClientRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	subtasks := repository.NewSubtaskRepository(db)
	events := repository.NewSecurityEventRepository(db)

	securityLogger := service.NewSecurityLogger(service.NewSecurityService(events))
	taskService := service.NewTaskService(tasks, projects, clients)

	return Services{
		Auth:      service.NewAuthService(accounts, tokens, passwords, securityLogger),
		Clients:   service.NewClientService(clients),
		Projects:  service.NewProjectService(projects, clients),
		Tasks:     taskService,
		Subtasks:  service.NewSubtaskService(subtasks),
		Workflow:  service.NewWorkflowService(taskService, tasks),
		Dashboard: service.NewDashboardService(tasks, projects, clients, loc),
		Security:  securityLogger,
	}
}

// StatusReporter tells the health endpoint whether dependencies are reachable.
type StatusReporter interface {
	Serving() bool
}

// Options configure the boundary behaviour of the server
type Options struct {
	AllowedOrigins []string
	Cookie         CookieConfig
	// GeneralLimiter applies to every route, AuthLimiter additionally to
	// register and login. Either may be nil.
	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter
	Health         StatusReporter
}

// Server is the workdesk HTTP API
type Server struct {
	services Services
	tokens   *auth.TokenManager
	cookies  CookieConfig
	health   StatusReporter
	router   *gin.Engine
}

// NewServer creates the router and registers every route
func NewServer(services Services, tokens *auth.TokenManager, opts Options) *Server {
	router := gin.New()
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, _ any) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}),
		middleware.ClientInfoExtractor(),
		middleware.RequestLogger(),
		middleware.CORS(opts.AllowedOrigins...),
	)

	s := &Server{
		services: services,
		tokens:   tokens,
		cookies:  opts.Cookie.withDefaults(tokens.Duration(auth.RefreshToken)),
		health:   opts.Health,
		router:   router,
	}

	if opts.GeneralLimiter != nil {
		router.Use(s.limit(opts.GeneralLimiter))
	}

	router.GET("/health", s.handleHealth)

	var authLimit gin.HandlerFunc
	if opts.AuthLimiter != nil {
		authLimit = s.limit(opts.AuthLimiter)
	}
	authLimited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if authLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{authLimit, h}
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authLimited(s.handleRegister)...)
		authRoutes.POST("/login", authLimited(s.handleLogin)...)
		authRoutes.POST("/refresh", s.handleRefresh)
		authRoutes.POST("/logout", s.handleLogout)
		authRoutes.GET("/me", s.handleMe)
	}

	protected := router.Group("/", middleware.NewAuthMiddleware(tokens).RequireAuth())
	{
		protected.GET("/clients", s.handleListClients)
		protected.POST("/clients", s.handleCreateClient)
		protected.GET("/clients/:id", s.handleGetClient)
		protected.PATCH("/clients/:id", s.handleUpdateClient)
		protected.PUT("/clients/:id", s.handleUpdateClient)
		protected.DELETE("/clients/:id", s.handleDeleteClient)

		protected.GET("/projects", s.handleListProjects)
		protected.POST("/projects", s.handleCreateProject)
		protected.GET("/projects/:id", s.handleGetProject)
		protected.PATCH("/projects/:id", s.handleUpdateProject)
		protected.PUT("/projects/:id", s.handleUpdateProject)
		protected.DELETE("/projects/:id", s.handleDeleteProject)

		protected.GET("/tasks", s.handleListTasks)
		protected.GET("/tasks/kanban", s.handleBoard)
		protected.POST("/tasks", s.handleCreateTask)
		protected.GET("/tasks/:id", s.handleGetTask)
		protected.PATCH("/tasks/:id", s.handleUpdateTask)
		protected.PUT("/tasks/:id", s.handleUpdateTask)
		protected.DELETE("/tasks/:id", s.handleDeleteTask)
		protected.PATCH("/tasks/:id/status", s.handlePatchStatus)

		protected.GET("/tasks/:id/subtasks", s.handleListSubtasks)
		protected.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
		protected.PATCH("/tasks/:id/subtasks/:subtaskId", s.handleUpdateSubtask)
		protected.DELETE("/tasks/:id/subtasks/:subtaskId", s.handleDeleteSubtask)

		protected.GET("/dashboard/summary", s.handleSummary)
	}

	return s
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) limit(limiter *middleware.RateLimiter) gin.HandlerFunc {
	if s.services.Security != nil {
		limiter.OnLimit(func(c *gin.Context) {
			s.services.Security.LogRateLimited(c.Request.Context(), c.Request.URL.Path)
		})
	}
	return limiter.Middleware()
}

// internal/api/task_handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type createTaskRequest struct {
	ProjectID   *string   `json:"projectId"`
	ClientID    *string   `json:"clientId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *jsonTime `json:"dueDate"`
	Category    *string   `json:"category"`
}

type updateTaskRequest struct {
	ProjectID   models.Optional[string]   `json:"projectId"`
	ClientID    models.Optional[string]   `json:"clientId"`
	Title       models.Optional[string]   `json:"title"`
	Description models.Optional[string]   `json:"description"`
	Status      models.Optional[string]   `json:"status"`
	Priority    models.Optional[string]   `json:"priority"`
	DueDate     models.Optional[jsonTime] `json:"dueDate"`
	Category    models.Optional[string]   `json:"category"`
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	page, err := pagination(c)
	if err != nil {
		writeError(c, err)
		return
	}
	filter, err := taskFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	tasks, total, err := s.services.Tasks.ListTasks(c.Request.Context(), middleware.AccountID(c), filter, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respondList(c, tasks, total, page)
}

func (s *Server) handleBoard(c *gin.Context) {
	filter, err := taskFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	board, err := s.services.Workflow.Board(c.Request.Context(), middleware.AccountID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	projectID, err := parseID("projectId", req.ProjectID)
	if err != nil {
		writeError(c, err)
		return
	}
	clientID, err := parseID("clientId", req.ClientID)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := s.services.Tasks.CreateTask(c.Request.Context(), middleware.AccountID(c), &repository.TaskInput{
		ProjectID:   projectID,
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.Priority(req.Priority),
		DueDate:     req.DueDate.ptr(),
		Category:    req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := s.services.Tasks.GetTask(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	projectID, err := optionalID("projectId", req.ProjectID)
	if err != nil {
		writeError(c, err)
		return
	}
	clientID, err := optionalID("clientId", req.ClientID)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := s.services.Tasks.UpdateTask(c.Request.Context(), middleware.AccountID(c), id, &repository.TaskUpdateInput{
		ProjectID:   projectID,
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      optionalEnum[models.TaskStatus](req.Status),
		Priority:    optionalEnum[models.Priority](req.Priority),
		DueDate:     optionalTime(req.DueDate),
		Category:    req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.services.Tasks.DeleteTask(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePatchStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req patchStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := s.services.Workflow.PatchStatus(c.Request.Context(), middleware.AccountID(c), id, models.TaskStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

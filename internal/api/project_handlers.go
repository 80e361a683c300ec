// internal/api/project_handlers.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type createProjectRequest struct {
	ClientID    *string   `json:"clientId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	StartDate   *jsonTime `json:"startDate"`
	EndDate     *jsonTime `json:"endDate"`
}

type updateProjectRequest struct {
	ClientID    models.Optional[string]   `json:"clientId"`
	Name        models.Optional[string]   `json:"name"`
	Description models.Optional[string]   `json:"description"`
	Status      models.Optional[string]   `json:"status"`
	StartDate   models.Optional[jsonTime] `json:"startDate"`
	EndDate     models.Optional[jsonTime] `json:"endDate"`
}

func (s *Server) handleListProjects(c *gin.Context) {
	page, err := pagination(c)
	if err != nil {
		writeError(c, err)
		return
	}

	filter := repository.ProjectFilter{
		Status: queryEnum[models.ProjectStatus](c, "status"),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if filter.ClientID, err = queryID(c, "clientId"); err != nil {
		writeError(c, err)
		return
	}

	projects, total, err := s.services.Projects.ListProjects(c.Request.Context(), middleware.AccountID(c), filter, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respondList(c, projects, total, page)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	clientID, err := parseID("clientId", req.ClientID)
	if err != nil {
		writeError(c, err)
		return
	}

	project, err := s.services.Projects.CreateProject(c.Request.Context(), middleware.AccountID(c), &repository.ProjectInput{
		ClientID:    clientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		StartDate:   req.StartDate.ptr(),
		EndDate:     req.EndDate.ptr(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := s.services.Projects.GetProject(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	clientID, err := optionalID("clientId", req.ClientID)
	if err != nil {
		writeError(c, err)
		return
	}

	project, err := s.services.Projects.UpdateProject(c.Request.Context(), middleware.AccountID(c), id, &repository.ProjectUpdateInput{
		ClientID:    clientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      optionalEnum[models.ProjectStatus](req.Status),
		StartDate:   optionalTime(req.StartDate),
		EndDate:     optionalTime(req.EndDate),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.services.Projects.DeleteProject(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

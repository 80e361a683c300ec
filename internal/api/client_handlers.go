// internal/api/client_handlers.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type createClientRequest struct {
	Name    string  `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Notes   *string `json:"notes"`
}

type updateClientRequest struct {
	Name    models.Optional[string] `json:"name"`
	Company models.Optional[string] `json:"company"`
	Email   models.Optional[string] `json:"email"`
	Phone   models.Optional[string] `json:"phone"`
	Notes   models.Optional[string] `json:"notes"`
}

func (s *Server) handleListClients(c *gin.Context) {
	page, err := pagination(c)
	if err != nil {
		writeError(c, err)
		return
	}

	filter := repository.ClientFilter{Search: strings.TrimSpace(c.Query("search"))}
	clients, total, err := s.services.Clients.ListClients(c.Request.Context(), middleware.AccountID(c), filter, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respondList(c, clients, total, page)
}

func (s *Server) handleCreateClient(c *gin.Context) {
	var req createClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := s.services.Clients.CreateClient(c.Request.Context(), middleware.AccountID(c), &repository.ClientInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (s *Server) handleGetClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := s.services.Clients.GetClient(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (s *Server) handleUpdateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := s.services.Clients.UpdateClient(c.Request.Context(), middleware.AccountID(c), id, &repository.ClientUpdateInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (s *Server) handleDeleteClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.services.Clients.DeleteClient(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

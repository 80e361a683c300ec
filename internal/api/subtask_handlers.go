// internal/api/subtask_handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/middleware"
	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
)

type createSubtaskRequest struct {
	Title string `json:"title"`
}

type updateSubtaskRequest struct {
	Title models.Optional[string] `json:"title"`
	Done  models.Optional[bool]   `json:"done"`
}

func (s *Server) handleListSubtasks(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	subtasks, err := s.services.Subtasks.ListSubtasks(c.Request.Context(), middleware.AccountID(c), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondList(c, subtasks, len(subtasks), nil)
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createSubtaskRequest
	if !bindJSON(c, &req) {
		return
	}

	subtask, err := s.services.Subtasks.CreateSubtask(c.Request.Context(), middleware.AccountID(c), taskID, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}
	var req updateSubtaskRequest
	if !bindJSON(c, &req) {
		return
	}

	subtask, err := s.services.Subtasks.UpdateSubtask(c.Request.Context(), middleware.AccountID(c), taskID, id, &repository.SubtaskUpdateInput{
		Title: req.Title,
		Done:  req.Done,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}

	if err := s.services.Subtasks.DeleteSubtask(c.Request.Context(), middleware.AccountID(c), taskID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

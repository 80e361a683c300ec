// internal/api/auth_handlers.go
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/service"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	accountID, err := s.services.Auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created",
		"userId":  accountID,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := s.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	s.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleRefresh(c *gin.Context) {
	session, err := s.services.Auth.Refresh(c.Request.Context(), s.refreshCookie(c))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			s.clearRefreshCookie(c)
		}
		writeError(c, err)
		return
	}

	s.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken": session.AccessToken,
		"expiresIn":   session.ExpiresIn,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	_ = s.services.Auth.Logout(c.Request.Context(), s.refreshCookie(c))
	s.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	// Header problems and token problems are both 401 here.
	token, _ := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))

	profile, err := s.services.Auth.WhoAmI(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

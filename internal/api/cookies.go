// internal/api/cookies.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultRefreshCookie is the cookie that carries the refresh token.
const DefaultRefreshCookie = "refreshToken"

// CookieConfig controls how the refresh token cookie is written. The cookie
// is Secure unless Insecure is set.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Insecure bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func (c CookieConfig) withDefaults(refreshLifetime time.Duration) CookieConfig {
	if c.Name == "" {
		c.Name = DefaultRefreshCookie
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteNoneMode
	}
	if c.MaxAge <= 0 {
		c.MaxAge = refreshLifetime
	}
	return c
}

// ParseSameSite maps a config value to an http.SameSite mode. Unknown values
// yield SameSite=None.
func ParseSameSite(value string) http.SameSite {
	switch value {
	case "lax", "Lax":
		return http.SameSiteLaxMode
	case "strict", "Strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteNoneMode
	}
}

func (s *Server) setRefreshCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cookies.Name,
		Value:    token,
		Path:     s.cookies.Path,
		Domain:   s.cookies.Domain,
		MaxAge:   int(s.cookies.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   !s.cookies.Insecure,
		SameSite: s.cookies.SameSite,
	})
}

func (s *Server) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cookies.Name,
		Value:    "",
		Path:     s.cookies.Path,
		Domain:   s.cookies.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.cookies.Insecure,
		SameSite: s.cookies.SameSite,
	})
}

func (s *Server) refreshCookie(c *gin.Context) string {
	token, err := c.Cookie(s.cookies.Name)
	if err != nil {
		return ""
	}
	return token
}

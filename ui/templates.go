package ui

import (
	"bytes"
	"net/http"

	"arbodash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// page is the data every template receives
type page struct {
	Title   string
	User    string
	Error   string
	Warning string
	Data    interface{}
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, name string, p page) {
	if p.User == "" {
		p.User = middleware.CurrentSession(c).User()
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, p); err != nil {
		s.logger.Error("template %s failed: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

package ui

import (
	"net/http"
	"time"

	"arbodash/internal/errors"
	"arbodash/ui/middleware"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleLoginPage(c *gin.Context) {
	if middleware.CurrentSession(c).IsAuthenticated(time.Now()) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.renderTemplate(c, http.StatusOK, "login.html", page{Title: "Acesso Restrito"})
}

func (s *Server) handleLogin(c *gin.Context) {
	session := middleware.CurrentSession(c)
	username := c.PostForm("username")

	authenticated, err := s.sessions.Login(c.Request.Context(), session, username, c.PostForm("password"))
	if err != nil {
		if errors.Is(err, errors.CodeUnauthorized) {
			s.renderTemplate(c, http.StatusUnauthorized, "login.html", page{
				Title: "Acesso Restrito",
				Error: err.Error(),
			})
			return
		}
		s.respondError(c, err)
		return
	}
	middleware.SetSessionCookie(c, s.opts.CookieName, authenticated, s.opts.SessionTTL, s.opts.SecureCookie)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if err := s.sessions.Logout(c.Request.Context(), session); err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"arbodash/internal"
	"arbodash/internal/errors"
	"arbodash/models"

	"github.com/gin-gonic/gin"
)

// sessionKey is the gin context key holding the current *models.Session
const sessionKey = "session"

// SessionResumer restores or starts the session behind a cookie value
type SessionResumer interface {
	Resume(ctx context.Context, id string) (*models.Session, error)
}

// Session attaches the visitor's session to the request, starting one and
// setting the cookie when the browser has none or it expired
func Session(resumer SessionResumer, cookieName string, ttl time.Duration, secure bool, logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)

		session, err := resumer.Resume(c.Request.Context(), id)
		if err != nil {
			logger.Error("[Session] failed to resume session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":  errors.GetCode(err),
				"error": "session unavailable",
			})
			return
		}

		if session.ID.String() != id {
			logger.Debug("[Session] started session %s", session.ID)
			SetSessionCookie(c, cookieName, session, ttl, secure)
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SetSessionCookie points the browser at session and makes it the
// request's current session
func SetSessionCookie(c *gin.Context, cookieName string, session *models.Session, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, session.ID.String(), int(ttl.Seconds()), "/", "", secure, true)
	c.Set(sessionKey, session)
}

// CurrentSession returns the session attached by Session, or nil
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

// RequireAuth lets authenticated sessions through. API and export routes
// get a 401 body; pages redirect to the login form.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c).IsAuthenticated(time.Now()) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/export/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  errors.CodeUnauthorized,
				"error": "authentication required",
			})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// RequestLogger logs one line per request through the application logger
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		line := "%s %s -> %d (%s)"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(line, args...)
		case status >= http.StatusBadRequest:
			logger.Warn(line, args...)
		default:
			logger.Debug(line, args...)
		}
	}
}

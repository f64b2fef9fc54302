package ui

import (
	"net/http"

	"arbodash/app"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleOptions(c *gin.Context) {
	opts, err := s.dashboard.Options(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (s *Server) handleSummary(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	summary, err := s.dashboard.Summary(c.Request.Context(), sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleListViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": s.dashboard.Views().List()})
}

func (s *Server) handleView(c *gin.Context) {
	if _, err := s.dashboard.Views().Lookup(c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	view, err := s.dashboard.RenderView(c.Request.Context(), c.Param("name"), sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleSynthesis(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	table, err := s.dashboard.Synthesis(c.Request.Context(), sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"headers": table.Headers(),
		"rows":    table.Values(),
		"table":   table,
	})
}

func (s *Server) handleITS(c *gin.Context) {
	period, err := app.ParsePeriod(c.Request.URL.Query())
	if err != nil {
		s.respondError(c, err)
		return
	}
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	result, err := s.dashboard.ITS(c.Request.Context(), sel, period)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDiD(c *gin.Context) {
	period, err := app.ParsePeriod(c.Request.URL.Query())
	if err != nil {
		s.respondError(c, err)
		return
	}
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	result, err := s.dashboard.DiD(c.Request.Context(), sel, period)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

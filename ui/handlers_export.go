package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"arbodash/app"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (s *Server) handleExportCSV(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if _, err := s.dashboard.ExportCSV(c.Request.Context(), sel, &buf); err != nil {
		s.respondError(c, err)
		return
	}
	attachment(c, app.FilteredCSVName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleExportSynthesis(c *gin.Context) {
	sel, ok := s.selection(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.dashboard.ExportSynthesis(c.Request.Context(), sel, &buf); err != nil {
		s.respondError(c, err)
		return
	}
	attachment(c, app.SynthesisXLSName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

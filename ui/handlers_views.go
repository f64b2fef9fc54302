package ui

import (
	"net/http"

	"arbodash/app"
	"arbodash/internal/errors"
	"arbodash/internal/pipeline"
	"arbodash/internal/reports"

	"github.com/gin-gonic/gin"
)

const emptyResultWarning = "Nenhum registro encontrado para os filtros selecionados."

type viewData struct {
	Config  reports.ViewConfig
	View    *reports.View
	Options *app.FilterOptions
	Query   string
}

// selection parses the request filters against the loaded dataset. On
// failure the error response is written and ok is false.
func (s *Server) selection(c *gin.Context) (pipeline.Selection, bool) {
	table, err := s.dashboard.Table(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return pipeline.Selection{}, false
	}
	sel, err := app.ParseSelection(c.Request.URL.Query(), table)
	if err != nil {
		s.respondError(c, err)
		return pipeline.Selection{}, false
	}
	return sel, true
}

func (s *Server) handleViewPage(c *gin.Context) {
	cfg, err := s.dashboard.Views().Lookup(c.Param("name"))
	if err != nil {
		s.renderTemplate(c, http.StatusNotFound, "view.html", page{Title: "Arboviroses", Error: err.Error()})
		return
	}

	data := viewData{Config: cfg, Query: c.Request.URL.RawQuery}
	p := page{Title: cfg.Title, Data: &data}

	data.Options, _ = s.dashboard.Options(c.Request.Context())
	table, err := s.dashboard.Table(c.Request.Context())
	if err == nil {
		var sel pipeline.Selection
		if sel, err = app.ParseSelection(c.Request.URL.Query(), table); err == nil {
			data.View, err = cfg.Render(table, sel)
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, errors.CodeEmptyResult):
		p.Warning = emptyResultWarning
	default:
		p.Error = err.Error()
	}
	s.renderTemplate(c, statusFor(err), "view.html", p)
}

package ui

import (
	"html/template"
	"net/http"

	"arbodash/app"
	"arbodash/internal/reports"

	"github.com/gin-gonic/gin"
)

type indexData struct {
	Home     template.HTML
	Sections []section
	Options  *app.FilterOptions
}

type section struct {
	Name  string
	Views []reports.ViewConfig
}

// sections groups the registered views in registration order
func sections(views []reports.ViewConfig) []section {
	var out []section
	index := make(map[string]int)
	for _, v := range views {
		i, ok := index[v.Section]
		if !ok {
			i = len(out)
			index[v.Section] = i
			out = append(out, section{Name: v.Section})
		}
		out[i].Views = append(out[i].Views, v)
	}
	return out
}

func (s *Server) handleIndex(c *gin.Context) {
	data := indexData{
		Home:     s.home,
		Sections: sections(s.dashboard.Views().List()),
	}

	opts, err := s.dashboard.Options(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to load dataset: %v", err)
		s.renderTemplate(c, statusFor(err), "index.html", page{
			Title: "Arboviroses",
			Error: err.Error(),
			Data:  data,
		})
		return
	}
	data.Options = opts

	s.renderTemplate(c, http.StatusOK, "index.html", page{Title: "Arboviroses", Data: data})
}

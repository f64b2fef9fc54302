package reports

import (
	"time"

	"arbodash/internal/pipeline"
)

var allFilters = []pipeline.Dimension{
	pipeline.DimYear,
	pipeline.DimDisease,
	pipeline.DimMunicipality,
	pipeline.DimSex,
	pipeline.DimRace,
	pipeline.DimGroup,
}

// Events annotated on the monthly series
var Events = []Annotation{
	{Date: time.Date(2019, 1, 25, 0, 0, 0, 0, time.UTC), Label: "Rompimento da barragem em Brumadinho"},
	{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Label: "Pico de dengue em 2024"},
	{Date: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), Label: "Primeiros casos de Zika"},
}

// DefaultViews returns the dashboard pages
func DefaultViews() []ViewConfig {
	return []ViewConfig{
		{
			Name:        "serie-mensal",
			Title:       "Casos por Mês e Agravo",
			Section:     "Tempo",
			Kind:        KindCounts,
			Filters:     allFilters,
			DateFilter:  true,
			GroupBy:     []pipeline.Dimension{pipeline.DimMonth, pipeline.DimDisease},
			Chart:       ChartLine,
			Annotations: Events,
		},
		{
			Name:       "casos-ano",
			Title:      "Casos por Ano e Agravo",
			Section:    "Tempo",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimYear, pipeline.DimDisease},
			Chart:      ChartBar,
		},
		{
			Name:        "municipios",
			Title:       "Distribuição por Município",
			Section:     "Lugar",
			Kind:        KindCounts,
			Filters:     allFilters,
			DateFilter:  true,
			GroupBy:     []pipeline.Dimension{pipeline.DimMunicipality},
			Chart:       ChartBar,
			SortByCount: true,
		},
		{
			Name:       "sexo",
			Title:      "Distribuição por Sexo",
			Section:    "Pessoa",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimSex},
			Chart:      ChartPie,
		},
		{
			Name:       "escolaridade",
			Title:      "Distribuição por Escolaridade",
			Section:    "Pessoa",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimEducation},
			Chart:      ChartBar,
		},
		{
			Name:       "faixa-etaria",
			Title:      "Distribuição por Faixa Etária",
			Section:    "Pessoa",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimAgeBand},
			Chart:      ChartBar,
		},
		{
			Name:       "grupos",
			Title:      "Casos por Grupo de Estudo",
			Section:    "Comparativo",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimGroup},
			Chart:      ChartBar,
		},
		{
			Name:       "grupos-agravo",
			Title:      "Casos por Grupo e Agravo",
			Section:    "Comparativo",
			Kind:       KindCounts,
			Filters:    allFilters,
			DateFilter: true,
			GroupBy:    []pipeline.Dimension{pipeline.DimGroup, pipeline.DimDisease},
			Chart:      ChartBar,
		},
		{
			Name:    "piramide",
			Title:   "Distribuição Etária por Sexo",
			Section: "Pirâmide",
			Kind:    KindPyramid,
			Filters: []pipeline.Dimension{pipeline.DimDisease, pipeline.DimGroup},
			Chart:   ChartPyramid,
		},
		{
			Name:       "intervalos",
			Title:      "Intervalos entre Datas",
			Section:    "Temporal",
			Kind:       KindIntervals,
			Filters:    allFilters,
			DateFilter: true,
			Chart:      ChartTable,
		},
		{
			Name:       "sintese",
			Title:      "Tabela Síntese por Doença e Grupo",
			Section:    "Comparativo",
			Kind:       KindSynthesis,
			Filters:    allFilters,
			DateFilter: true,
			Chart:      ChartTable,
		},
	}
}

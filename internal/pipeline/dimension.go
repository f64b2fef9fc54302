// Package pipeline filters notification tables by set-membership predicates
// and counts the surviving rows per dimension combination.
package pipeline

import (
	"strconv"
	"strings"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
)

// Dimension names a categorical attribute a record can be grouped or
// filtered by
type Dimension string

const (
	DimYear         Dimension = "year"
	DimDisease      Dimension = "disease"
	DimMunicipality Dimension = "municipality"
	DimSex          Dimension = "sex"
	DimRace         Dimension = "race"
	DimEducation    Dimension = "education"
	DimGroup        Dimension = "group"
	DimAgeBand      Dimension = "age_band"
	DimMonth        Dimension = "month"
)

// Dimensions lists every known dimension in display order
func Dimensions() []Dimension {
	return []Dimension{DimYear, DimDisease, DimMunicipality, DimSex, DimRace, DimEducation, DimGroup, DimAgeBand, DimMonth}
}

// ParseDimension validates a dimension name from user input
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions() {
		if d == known {
			return d, nil
		}
	}
	return "", errors.InvalidInput("unknown dimension: " + s)
}

// Value extracts the dimension value of r as a string. Missing values are "".
func (d Dimension) Value(r *notification.Record) string {
	switch d {
	case DimYear:
		if !r.Year.Valid {
			return ""
		}
		return strconv.FormatInt(r.Year.Int64, 10)
	case DimDisease:
		return r.Disease
	case DimMunicipality:
		return r.Municipality()
	case DimSex:
		return r.Sex
	case DimRace:
		return r.Race
	case DimEducation:
		return r.Education
	case DimGroup:
		return string(r.Group)
	case DimAgeBand:
		return string(r.AgeBand)
	case DimMonth:
		return r.Month()
	default:
		return ""
	}
}

// less orders two values of the same dimension. Age bands follow their
// numeric order and years compare numerically; everything else is lexical.
func (d Dimension) less(a, b string) bool {
	switch d {
	case DimAgeBand:
		return notification.AgeBand(a).Order() < notification.AgeBand(b).Order()
	case DimYear:
		ai, aerr := strconv.ParseInt(a, 10, 64)
		bi, berr := strconv.ParseInt(b, 10, 64)
		if aerr == nil && berr == nil {
			return ai < bi
		}
	}
	return a < b
}

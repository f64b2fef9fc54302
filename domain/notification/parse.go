package notification

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"
)

// Day-first layouts are tried before dateparse, which assumes month-first
// for ambiguous slash dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"20060102",
}

// ParseDate coerces a source date string; anything unparsable is null.
func ParseDate(raw string) null.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") || strings.EqualFold(s, "null") {
		return null.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return null.TimeFrom(t)
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

func parseYear(raw string, notified null.Time) null.Int {
	s := strings.TrimSpace(raw)
	if s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1900 && f < 3000 {
			return null.IntFrom(int64(f))
		}
	}
	if notified.Valid {
		return null.IntFrom(int64(notified.Time.Year()))
	}
	return null.Int{}
}

// FromRaw builds a Record from a source row, applying every ingestion-time
// derivation. It never fails: unparsable fields become null.
func FromRaw(row RawRow) Record {
	notified := ParseDate(row.Get(ColNotifiedAt))
	rawAge := strings.TrimSpace(row.Get(ColRawAge))
	age := DecodeAge(rawAge)

	return Record{
		NotifiedAt:       notified,
		SymptomOnsetAt:   ParseDate(row.Get(ColSymptomOnsetAt)),
		ClosedAt:         ParseDate(row.Get(ColClosedAt)),
		Disease:          strings.TrimSpace(row.Get(ColDisease)),
		MunicipalityID:   strings.TrimSpace(row.Get(ColMunicipalityID)),
		MunicipalityName: strings.TrimSpace(row.Get(ColMunicipalityName)),
		Year:             parseYear(row.Get(ColYear), notified),
		Sex:              strings.TrimSpace(row.Get(ColSex)),
		Race:             strings.TrimSpace(row.Get(ColRace)),
		Education:        strings.TrimSpace(row.Get(ColEducation)),
		RawAge:           rawAge,
		Group:            Recode(row.Get(ColStudyGroup)),
		AgeYears:         age,
		AgeBand:          BandFor(age),
	}
}

// DiseaseName maps SINAN ID_AGRAVO codes to display names. Unknown codes are
// returned as-is.
func DiseaseName(code string) string {
	switch strings.ToUpper(strings.ReplaceAll(code, ".", "")) {
	case "A90":
		return "Dengue"
	case "A920":
		return "Chikungunya"
	case "A928":
		return "Zika"
	default:
		return code
	}
}

// Package notification holds the case-record model of the SINAN arbovirus
// registry and the pure derivations applied to it at ingestion time.
package notification

import (
	"strings"
	"time"

	"gopkg.in/guregu/null.v3"
)

// Canonical column names. Headers are folded to upper case before lookup so
// "id_agravo" and "ID_AGRAVO" resolve to the same field.
const (
	ColNotifiedAt       = "DT_NOTIFIC"
	ColSymptomOnsetAt   = "DT_SIN_PRI"
	ColClosedAt         = "DT_ENCERRA"
	ColDisease          = "ID_AGRAVO"
	ColMunicipalityID   = "ID_MUNICIP"
	ColMunicipalityName = "NOMEDOMUNICIPIO"
	ColYear             = "NU_ANO"
	ColSex              = "CS_SEXO"
	ColRace             = "CS_RACA"
	ColEducation        = "CS_ESCOL_N"
	ColRawAge           = "NU_IDADE_N"
	ColStudyGroup       = "ESTUDO"

	// Derived columns, present in exports only.
	ColAgeYears = "IDADE_ANOS"
	ColAgeBand  = "FAIXA_ETARIA"
)

// Alternative spellings seen across dataset versions.
var columnAliases = map[string][]string{
	ColMunicipalityName: {"NM_MUNICIP", "MUNICIPIO"},
	ColStudyGroup:       {"ESTUDOVALE"},
}

// Record is one disease notification. Records are immutable once loaded.
type Record struct {
	NotifiedAt       null.Time  `json:"notified_at"`
	SymptomOnsetAt   null.Time  `json:"symptom_onset_at"`
	ClosedAt         null.Time  `json:"closed_at"`
	Disease          string     `json:"disease"`
	MunicipalityID   string     `json:"municipality_id"`
	MunicipalityName string     `json:"municipality_name"`
	Year             null.Int   `json:"year"`
	Sex              string     `json:"sex"`
	Race             string     `json:"race"`
	Education        string     `json:"education"`
	RawAge           string     `json:"raw_age"`
	Group            StudyGroup `json:"group"`
	AgeYears         null.Int   `json:"age_years"`
	AgeBand          AgeBand    `json:"age_band"`
}

// Municipality returns the display name, falling back to the identifier.
func (r *Record) Municipality() string {
	if r.MunicipalityName != "" {
		return r.MunicipalityName
	}
	return r.MunicipalityID
}

// Month returns the notification month as "2006-01", or "" when the
// notification date is missing.
func (r *Record) Month() string {
	if !r.NotifiedAt.Valid {
		return ""
	}
	return r.NotifiedAt.Time.Format("2006-01")
}

// RawRow is a single source row keyed by upper-cased column name.
type RawRow map[string]string

// Get returns the value for a canonical column, trying known aliases.
func (r RawRow) Get(column string) string {
	if v, ok := r[column]; ok {
		return v
	}
	for _, alias := range columnAliases[column] {
		if v, ok := r[alias]; ok {
			return v
		}
	}
	return ""
}

// RawTable is the untyped output of a storage adapter.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// NormalizeHeader folds a source header into its canonical form.
func NormalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// Table is an in-memory, read-only set of records.
type Table struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  []Record  `json:"records"`
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// WithRecords returns a table sharing t's metadata but holding records.
func (t *Table) WithRecords(records []Record) *Table {
	return &Table{Source: t.Source, LoadedAt: t.LoadedAt, Records: records}
}

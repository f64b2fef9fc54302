package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"arbodash/domain/notification"
)

// NotificationGeneratorConfig configures the synthetic SINAN extract
type NotificationGeneratorConfig struct {
	RecordCount int       `json:"record_count"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ESPDate     time.Time `json:"esp_date"`
	// CaseUplift multiplies the case group's acceptance rate after ESPDate
	CaseUplift float64 `json:"case_uplift"`
	Seed       int64   `json:"seed"`
}

// DefaultNotificationConfig returns defaults covering 2014–2024
func DefaultNotificationConfig() NotificationGeneratorConfig {
	return NotificationGeneratorConfig{
		RecordCount: 5000,
		StartDate:   time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		ESPDate:     time.Date(2019, 1, 25, 0, 0, 0, 0, time.UTC),
		CaseUplift:  1.6,
		Seed:        42,
	}
}

type municipality struct {
	id    string
	name  string
	group int
}

var municipalities = []municipality{
	{"310900", "Brumadinho", 1},
	{"314000", "Mário Campos", 1},
	{"316292", "São Joaquim de Bicas", 1},
	{"310670", "Betim", 1},
	{"313665", "Juatuba", 1},
	{"313370", "Itatiaiuçu", 2},
	{"315560", "Rio Manso", 2},
	{"310810", "Bonfim", 2},
	{"312030", "Crucilândia", 2},
}

var diseases = []struct {
	code   string
	weight float64
}{
	{"A90", 0.75},
	{"A920", 0.17},
	{"A928", 0.08},
}

// NotificationGenerator produces raw rows in the mixed encodings seen
// across dataset versions, so loading them exercises every derivation
type NotificationGenerator struct {
	config NotificationGeneratorConfig
	rng    *rand.Rand
}

// NewNotificationGenerator creates a seeded generator
func NewNotificationGenerator(config NotificationGeneratorConfig) *NotificationGenerator {
	return &NotificationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows returns RecordCount raw rows
func (g *NotificationGenerator) GenerateRows() []notification.RawRow {
	rows := make([]notification.RawRow, 0, g.config.RecordCount)
	for len(rows) < g.config.RecordCount {
		m := municipalities[g.rng.Intn(len(municipalities))]
		notified := g.randomDate()

		// Rejection sampling keeps the case group's pre-ESP rate at the
		// control rate and lifts it afterwards.
		accept := 1 / g.config.CaseUplift
		if m.group == 1 && !notified.Before(g.config.ESPDate) {
			accept = 1
		}
		if g.rng.Float64() > accept {
			continue
		}
		rows = append(rows, g.row(m, notified))
	}
	return rows
}

// GenerateTable returns the generated rows as a typed table
func (g *NotificationGenerator) GenerateTable() *notification.Table {
	rows := g.GenerateRows()
	records := make([]notification.Record, len(rows))
	for i, row := range rows {
		records[i] = notification.FromRaw(row)
	}
	return &notification.Table{Source: "synthetic", LoadedAt: time.Now().UTC(), Records: records}
}

func (g *NotificationGenerator) row(m municipality, notified time.Time) notification.RawRow {
	onset := notified.AddDate(0, 0, -g.rng.Intn(8))
	row := notification.RawRow{
		notification.ColNotifiedAt:       g.formatDate(notified),
		notification.ColSymptomOnsetAt:   g.formatDate(onset),
		notification.ColDisease:          g.disease(),
		notification.ColMunicipalityID:   m.id,
		notification.ColMunicipalityName: m.name,
		notification.ColYear:             fmt.Sprintf("%d", notified.Year()),
		notification.ColSex:              g.pick([]string{"M", "F", "F", "M", "I"}),
		notification.ColRace:             g.pick([]string{"1", "2", "3", "4", "5", "9"}),
		notification.ColEducation:        g.pick([]string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10"}),
		notification.ColRawAge:           g.rawAge(),
		notification.ColStudyGroup:       g.groupLabel(m.group),
	}
	if g.rng.Float64() < 0.85 {
		row[notification.ColClosedAt] = g.formatDate(notified.AddDate(0, 0, 5+g.rng.Intn(55)))
	}
	return row
}

func (g *NotificationGenerator) randomDate() time.Time {
	span := int(g.config.EndDate.Sub(g.config.StartDate).Hours() / 24)
	if span <= 0 {
		return g.config.StartDate
	}
	return g.config.StartDate.AddDate(0, 0, g.rng.Intn(span+1))
}

func (g *NotificationGenerator) formatDate(t time.Time) string {
	if g.rng.Float64() < 0.02 {
		return ""
	}
	if g.rng.Intn(2) == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("02/01/2006")
}

func (g *NotificationGenerator) disease() string {
	x := g.rng.Float64()
	for _, d := range diseases {
		if x < d.weight {
			return d.code
		}
		x -= d.weight
	}
	return diseases[0].code
}

// rawAge emits mostly year-coded ages with some month/day codes and blanks
func (g *NotificationGenerator) rawAge() string {
	switch x := g.rng.Float64(); {
	case x < 0.03:
		return ""
	case x < 0.06:
		return fmt.Sprintf("3%03d", 1+g.rng.Intn(11))
	case x < 0.08:
		return fmt.Sprintf("2%03d", 1+g.rng.Intn(29))
	default:
		return fmt.Sprintf("4%03d", g.rng.Intn(95))
	}
}

func (g *NotificationGenerator) groupLabel(group int) string {
	if group == 1 {
		return g.pick([]string{"1", "1.0", "Caso"})
	}
	return g.pick([]string{"2", "2.0", "Controle"})
}

func (g *NotificationGenerator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

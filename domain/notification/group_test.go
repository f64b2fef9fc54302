package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecode(t *testing.T) {
	tests := []struct {
		raw  string
		want StudyGroup
	}{
		{"1", GroupCase},
		{"2", GroupControl},
		{"1.0", GroupCase},
		{"2.0", GroupControl},
		{"Caso", GroupCase},
		{"Controle", GroupControl},
		{"caso", GroupCase},
		{"unexpected", StudyGroup("unexpected")},
		{"3", StudyGroup("3")},
		{"", StudyGroup("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Recode(tt.raw), "raw=%q", tt.raw)
	}
}

func TestRecodeIsIdempotent(t *testing.T) {
	inputs := []string{"1", "2", "1.0", "2.0", "Caso", "Controle", "caso", "unexpected", "3", ""}
	for _, in := range inputs {
		once := Recode(in)
		twice := Recode(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestGroupKind(t *testing.T) {
	assert.Equal(t, KindCase, GroupCase.Kind())
	assert.Equal(t, KindControl, GroupControl.Kind())
	assert.Equal(t, KindUnknown, StudyGroup("9").Kind())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2019, 1, 25, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2019-01-25", "25/01/2019", "20190125", "2019-01-25T00:00:00Z"} {
		got := ParseDate(raw)
		if assert.True(t, got.Valid, "raw=%q", raw) {
			assert.True(t, want.Equal(got.Time), "raw=%q got=%v", raw, got.Time)
		}
	}

	for _, raw := range []string{"", "NaT", "not a date", "nan"} {
		assert.False(t, ParseDate(raw).Valid, "raw=%q", raw)
	}
}

func TestFromRaw(t *testing.T) {
	row := RawRow{
		"DT_NOTIFIC": "2019-03-02",
		"DT_SIN_PRI": "garbage",
		"ID_AGRAVO":  "A90",
		"ID_MUNICIP": "310900",
		"CS_SEXO":    "F",
		"NU_IDADE_N": "4034",
		"ESTUDOVALE": "2",
	}

	rec := FromRaw(row)

	assert.True(t, rec.NotifiedAt.Valid)
	assert.False(t, rec.SymptomOnsetAt.Valid)
	assert.Equal(t, int64(2019), rec.Year.Int64, "year falls back to the notification date")
	assert.Equal(t, int64(34), rec.AgeYears.Int64)
	assert.Equal(t, Band21to40, rec.AgeBand)
	assert.Equal(t, GroupControl, rec.Group)
	assert.Equal(t, "310900", rec.Municipality())
	assert.Equal(t, "2019-03", rec.Month())
	assert.Equal(t, "Dengue", DiseaseName(rec.Disease))
}

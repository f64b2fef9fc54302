package pipeline

import (
	"testing"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func record(year int64, disease string, notified string) notification.Record {
	r := notification.Record{Disease: disease, Year: null.IntFrom(year), Group: notification.GroupCase}
	if notified != "" {
		r.NotifiedAt = notification.ParseDate(notified)
	}
	return r
}

func threeRows() *notification.Table {
	return &notification.Table{Records: []notification.Record{
		record(2018, "Dengue", "2018-04-01"),
		record(2019, "Dengue", "2019-04-01"),
		record(2020, "Zika", "2020-04-01"),
	}}
}

func TestEndToEndYearRangeAndGrouping(t *testing.T) {
	filtered := Filter(threeRows(), YearIn(YearRange(2019, 2020)))
	require.Equal(t, 2, filtered.Len())

	counts := CountBy(filtered, DimYear, DimDisease)
	want := []GroupCount{
		{Keys: []string{"2019", "Dengue"}, Count: 1},
		{Keys: []string{"2020", "Zika"}, Count: 1},
	}
	if diff := cmp.Diff(want, counts.Rows); diff != "" {
		t.Errorf("CountBy mismatch (-want +got):\n%s", diff)
	}
}

func TestPredicatesCommute(t *testing.T) {
	table := &notification.Table{Records: []notification.Record{
		record(2018, "Dengue", ""),
		record(2019, "Dengue", ""),
		record(2019, "Zika", ""),
		record(2020, "Dengue", ""),
		record(2021, "Dengue", ""),
		record(2020, "Chikungunya", ""),
	}}
	years := YearIn(YearRange(2019, 2020))
	dengue := DiseaseIn(NewSet("Dengue"))

	a := Filter(Filter(table, years), dengue)
	b := Filter(Filter(table, dengue), years)
	c := Filter(table, dengue, years)

	if diff := cmp.Diff(a.Records, b.Records); diff != "" {
		t.Errorf("order changed result (-years first +disease first):\n%s", diff)
	}
	if diff := cmp.Diff(a.Records, c.Records); diff != "" {
		t.Errorf("single pass differs (-chained +single):\n%s", diff)
	}
	assert.Equal(t, 2, a.Len())
}

func TestEmptySelectionSelectsNothing(t *testing.T) {
	table := threeRows()

	assert.Equal(t, 0, Apply(table, Selection{Diseases: NewSet[string]()}).Len())
	assert.Equal(t, 3, Apply(table, Selection{}).Len(), "nil sets leave dimensions unconstrained")
}

func TestRequireRows(t *testing.T) {
	empty := Apply(threeRows(), Selection{Years: NewSet[int64](1999)})

	err := RequireRows(empty)
	require.Error(t, err)
	assert.Equal(t, errors.CodeEmptyResult, errors.GetCode(err))
	assert.NoError(t, RequireRows(threeRows()))
}

func TestNotifiedWithinIsInclusive(t *testing.T) {
	table := &notification.Table{Records: []notification.Record{
		record(2019, "Dengue", "2019-01-01"),
		record(2019, "Dengue", "2019-01-31 23:10:00"),
		record(2019, "Dengue", "2019-02-01"),
		record(2019, "Dengue", ""),
	}}
	rng := DateRange{
		From: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, Filter(table, NotifiedWithin(rng)).Len())
	assert.Equal(t, 3, Filter(table, NotifiedWithin(DateRange{From: rng.From})).Len())
}

func TestFullSelectionKeepsDatedRows(t *testing.T) {
	table := threeRows()
	table.Records = append(table.Records, record(2020, "Zika", ""))

	sel := FullSelection(table)
	assert.Len(t, sel.Years, 3)
	assert.True(t, sel.Groups.Has(notification.GroupCase))
	assert.Equal(t, 3, Apply(table, sel).Len(), "rows without notification date fall outside the default interval")
}

func TestFullSelectionKeepsBlankAttributes(t *testing.T) {
	table := &notification.Table{Records: []notification.Record{
		{Year: null.IntFrom(2019), Disease: "A90", Sex: "F", Race: "1", MunicipalityName: "Itabirito", NotifiedAt: notification.ParseDate("2019-02-01")},
		{Year: null.IntFrom(2019), Disease: "A90", Sex: "M", Race: "", MunicipalityName: "Itabirito", NotifiedAt: notification.ParseDate("2019-02-02")},
		{Year: null.IntFrom(2019), Disease: "A90", Sex: "", Race: "4", MunicipalityName: "Itabirito", NotifiedAt: notification.ParseDate("2019-02-03")},
		{Year: null.IntFrom(2019), Disease: "A90", Sex: "F", Race: "1", NotifiedAt: notification.ParseDate("2019-02-04")},
	}}

	sel := FullSelection(table)
	assert.Equal(t, 4, Apply(table, sel).Len())
	assert.True(t, sel.Sexes.Has(""))
	assert.Equal(t, []string{"F", "M"}, Distinct(table, DimSex), "options still omit blanks")
}

func TestFullSelectionWithoutMunicipalityColumn(t *testing.T) {
	table := threeRows()
	assert.Equal(t, 3, Apply(table, FullSelection(table)).Len())
}

func TestCountByOrdersAgeBandsAndSkipsMissing(t *testing.T) {
	table := &notification.Table{Records: []notification.Record{
		{AgeBand: notification.Band81Plus},
		{AgeBand: notification.Band0to10},
		{AgeBand: notification.Band11to20},
		{AgeBand: notification.Band0to10},
		{AgeBand: notification.BandUndefined},
	}}

	counts := CountBy(table, DimAgeBand)
	assert.Equal(t, 4, counts.Total())
	assert.Equal(t, []string{"0–10"}, counts.Rows[0].Keys)
	assert.Equal(t, 2, counts.Lookup("0–10"))
	assert.Equal(t, []string{string(notification.Band81Plus)}, counts.Rows[2].Keys)
}

func TestYearBoundsAndDistinct(t *testing.T) {
	lo, hi, ok := YearBounds(threeRows())
	require.True(t, ok)
	assert.Equal(t, int64(2018), lo)
	assert.Equal(t, int64(2020), hi)

	_, _, ok = YearBounds(&notification.Table{})
	assert.False(t, ok)

	assert.Equal(t, []string{"Dengue", "Zika"}, Distinct(threeRows(), DimDisease))
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Disease ")
	require.NoError(t, err)
	assert.Equal(t, DimDisease, d)

	_, err = ParseDimension("colour")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

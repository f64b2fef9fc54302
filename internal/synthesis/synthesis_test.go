package synthesis

import (
	"testing"

	"arbodash/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(counts map[string]map[notification.StudyGroup]int) *notification.Table {
	t := &notification.Table{}
	for disease, groups := range counts {
		for g, n := range groups {
			for i := 0; i < n; i++ {
				t.Records = append(t.Records, notification.Record{Disease: disease, Group: g})
			}
		}
	}
	return t
}

func TestBuildEightyTwenty(t *testing.T) {
	got := Build(tableOf(map[string]map[notification.StudyGroup]int{
		"A90": {notification.GroupCase: 80, notification.GroupControl: 20},
	}))

	require.Len(t, got.Rows, 1)
	row := got.Rows[0]
	assert.Equal(t, 100, row.Total)
	assert.Equal(t, []int{80, 20}, row.Counts)
	assert.Equal(t, 80.0, row.Percent[got.Column(notification.GroupCase)].Float64)
	assert.Equal(t, 20.0, row.Percent[got.Column(notification.GroupControl)].Float64)
}

func TestMissingGroupColumnIsZeroFilled(t *testing.T) {
	got := Build(tableOf(map[string]map[notification.StudyGroup]int{
		"A928": {notification.GroupCase: 3},
	}))

	assert.Equal(t, []notification.StudyGroup{notification.GroupCase, notification.GroupControl}, got.Groups)
	assert.Equal(t, []int{3, 0}, got.Rows[0].Counts)
	assert.Equal(t, 0.0, got.Rows[0].Percent[1].Float64)
	assert.True(t, got.Rows[0].Percent[1].Valid)
}

func TestZeroTotalGivesNullPercentages(t *testing.T) {
	row := NewRow("A920", []int{0, 0})

	assert.Equal(t, 0, row.Total)
	for _, p := range row.Percent {
		assert.False(t, p.Valid)
	}
}

func TestUnknownGroupsBecomeColumns(t *testing.T) {
	got := Build(tableOf(map[string]map[notification.StudyGroup]int{
		"A90":  {notification.GroupCase: 1, "9": 1},
		"A920": {notification.GroupControl: 5},
	}))

	assert.Equal(t, []notification.StudyGroup{notification.GroupCase, notification.GroupControl, "9"}, got.Groups)
	assert.Equal(t, "A920", got.Rows[0].Disease, "rows sorted by total descending")
	assert.Equal(t, 2, got.Rows[1].Total)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 33.3, Percent(1, 3))
	assert.Equal(t, 66.7, Percent(2, 3))
	assert.Equal(t, 12.5, Percent(1, 8))
	assert.Equal(t, 100.0, Percent(7, 7))
}

func TestValuesFollowHeaders(t *testing.T) {
	got := Build(tableOf(map[string]map[notification.StudyGroup]int{
		"A90": {notification.GroupCase: 1},
	}))

	headers := got.Headers()
	values := got.Values()
	require.Len(t, values, 1)
	assert.Len(t, values[0], len(headers))
	assert.Equal(t, "Dengue", values[0][0])
	assert.Equal(t, []string{"Agravo", "Caso", "Controle", "Total", "% Caso", "% Controle"}, headers)
}

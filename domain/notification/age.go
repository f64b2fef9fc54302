package notification

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// YearsUnit is the leading digit of NU_IDADE_N marking an age given in years.
// Other units (hours, days, months) are not decoded.
const YearsUnit = '4'

// AgeBand is a fixed age range label. The zero value means undefined.
type AgeBand string

const (
	BandUndefined AgeBand = ""
	Band0to10     AgeBand = "0–10"
	Band11to20    AgeBand = "11–20"
	Band21to40    AgeBand = "21–40"
	Band41to60    AgeBand = "41–60"
	Band61to80    AgeBand = "61–80"
	Band81Plus    AgeBand = "81+"
)

type bandEdge struct {
	lo, hi int64
	band   AgeBand
}

// Left-inclusive, right-exclusive.
var bandEdges = []bandEdge{
	{0, 10, Band0to10},
	{10, 20, Band11to20},
	{20, 40, Band21to40},
	{40, 60, Band41to60},
	{60, 80, Band61to80},
	{80, 120, Band81Plus},
}

// AgeBands returns the bands in display order.
func AgeBands() []AgeBand {
	out := make([]AgeBand, len(bandEdges))
	for i, e := range bandEdges {
		out[i] = e.band
	}
	return out
}

// Order returns the position of b in AgeBands, or -1 when undefined.
func (b AgeBand) Order() int {
	for i, e := range bandEdges {
		if e.band == b {
			return i
		}
	}
	return -1
}

// Defined reports whether b is one of the six bands.
func (b AgeBand) Defined() bool {
	return b.Order() >= 0
}

// DecodeAge decodes the coded age field. The value is parsed as a number and
// truncated; when its decimal form starts with the years unit the remainder
// is the age. Every failure yields null.
func DecodeAge(raw string) null.Int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return null.Int{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Int{}
	}
	if math.Abs(f) > math.MaxInt64/2 {
		return null.Int{}
	}
	digits := strconv.FormatInt(int64(f), 10)
	if len(digits) < 2 || digits[0] != YearsUnit {
		return null.Int{}
	}
	age, err := strconv.ParseInt(digits[1:], 10, 64)
	if err != nil {
		return null.Int{}
	}
	return null.IntFrom(age)
}

// BandFor assigns the age band for age; null or out-of-range ages are
// undefined.
func BandFor(age null.Int) AgeBand {
	if !age.Valid {
		return BandUndefined
	}
	for _, e := range bandEdges {
		if age.Int64 >= e.lo && age.Int64 < e.hi {
			return e.band
		}
	}
	return BandUndefined
}

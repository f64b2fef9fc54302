package reports

import (
	"arbodash/domain/notification"
)

// PyramidBar is one age band × sex bar. Male counts are negative so the
// bars mirror around zero.
type PyramidBar struct {
	Band  notification.AgeBand `json:"band"`
	Sex   string               `json:"sex"`
	Count int                  `json:"count"`
}

// AgePyramid counts records per age band and sex, keeping only "M" and "F"
// and records with a defined band. Bars follow the fixed band order, male
// before female.
func AgePyramid(table *notification.Table) []PyramidBar {
	bands := notification.AgeBands()
	male := make([]int, len(bands))
	female := make([]int, len(bands))

	for i := range table.Records {
		r := &table.Records[i]
		idx := r.AgeBand.Order()
		if idx < 0 {
			continue
		}
		switch r.Sex {
		case "M":
			male[idx]++
		case "F":
			female[idx]++
		}
	}

	var bars []PyramidBar
	for i, band := range bands {
		if male[i] > 0 {
			bars = append(bars, PyramidBar{Band: band, Sex: "M", Count: -male[i]})
		}
		if female[i] > 0 {
			bars = append(bars, PyramidBar{Band: band, Sex: "F", Count: female[i]})
		}
	}
	return bars
}

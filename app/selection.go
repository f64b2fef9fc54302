package app

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
	"arbodash/internal/impact"
	"arbodash/internal/pipeline"
)

// ParseSelection reads the sidebar filters from query parameters. A
// dimension absent from the query keeps its default, which selects every
// value in the dataset; a present but empty parameter selects nothing.
// Values may repeat (?disease=A90&disease=A920) or be comma separated.
func ParseSelection(q url.Values, table *notification.Table) (pipeline.Selection, error) {
	sel := pipeline.FullSelection(table)

	if values, ok := listParam(q, "disease"); ok {
		sel.Diseases = pipeline.NewSet(values...)
	}
	if values, ok := listParam(q, "municipality"); ok {
		sel.Municipalities = pipeline.NewSet(values...)
	}
	if values, ok := listParam(q, "sex"); ok {
		sel.Sexes = pipeline.NewSet(values...)
	}
	if values, ok := listParam(q, "race"); ok {
		sel.Races = pipeline.NewSet(values...)
	}
	if values, ok := listParam(q, "group"); ok {
		groups := pipeline.NewSet[notification.StudyGroup]()
		for _, v := range values {
			groups[notification.Recode(v)] = struct{}{}
		}
		sel.Groups = groups
	}

	years, err := parseYears(q, sel.Years)
	if err != nil {
		return pipeline.Selection{}, err
	}
	sel.Years = years

	if _, ok := q["date_from"]; ok {
		from, err := parseDateParam(q.Get("date_from"), "date_from")
		if err != nil {
			return pipeline.Selection{}, err
		}
		sel.Notified.From = from
	}
	if _, ok := q["date_to"]; ok {
		to, err := parseDateParam(q.Get("date_to"), "date_to")
		if err != nil {
			return pipeline.Selection{}, err
		}
		sel.Notified.To = to
	}
	if !sel.Notified.From.IsZero() && !sel.Notified.To.IsZero() && sel.Notified.To.Before(sel.Notified.From) {
		return pipeline.Selection{}, errors.InvalidInput("date_to is before date_from")
	}
	return sel, nil
}

// listParam collects every value of key, splitting commas and dropping
// blanks. ok is false when key is absent.
func listParam(q url.Values, key string) ([]string, bool) {
	raw, ok := q[key]
	if !ok {
		return nil, false
	}
	values := []string{}
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}

func parseYears(q url.Values, current pipeline.Set[int64]) (pipeline.Set[int64], error) {
	if values, ok := listParam(q, "year"); ok {
		years := pipeline.NewSet[int64]()
		for _, v := range values {
			y, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, errors.InvalidInput("invalid year: " + v)
			}
			years[y] = struct{}{}
		}
		return years, nil
	}

	_, hasFrom := q["year_from"]
	_, hasTo := q["year_to"]
	if !hasFrom && !hasTo {
		return current, nil
	}

	lo, hi := int64(0), int64(0)
	for y := range current {
		if lo == 0 || y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	if hasFrom {
		v, err := strconv.ParseInt(strings.TrimSpace(q.Get("year_from")), 10, 64)
		if err != nil {
			return nil, errors.InvalidInput("invalid year_from: " + q.Get("year_from"))
		}
		lo = v
	}
	if hasTo {
		v, err := strconv.ParseInt(strings.TrimSpace(q.Get("year_to")), 10, 64)
		if err != nil {
			return nil, errors.InvalidInput("invalid year_to: " + q.Get("year_to"))
		}
		hi = v
	}
	if hi < lo {
		return nil, errors.InvalidInput("year_to is before year_from")
	}
	return pipeline.YearRange(lo, hi), nil
}

// parseDateParam parses a date bound; an empty value leaves that side open
func parseDateParam(raw, name string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t := notification.ParseDate(raw)
	if !t.Valid {
		return time.Time{}, errors.InvalidInput("invalid " + name + ": " + raw)
	}
	return t.Time, nil
}

// ParsePeriod reads the model period from the query; weekly by default
func ParsePeriod(q url.Values) (impact.Period, error) {
	return impact.ParsePeriod(q.Get("period"))
}

package notification

import (
	"strconv"
	"strings"
)

// StudyGroup is the normalized case/control label. Unrecognized source values
// are kept verbatim so grouping never drops rows.
type StudyGroup string

const (
	GroupCase    StudyGroup = "Caso"
	GroupControl StudyGroup = "Controle"
)

// GroupKind is the typed view of a StudyGroup.
type GroupKind int

const (
	KindUnknown GroupKind = iota
	KindCase
	KindControl
)

func (k GroupKind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// Kind classifies the label.
func (g StudyGroup) Kind() GroupKind {
	switch g {
	case GroupCase:
		return KindCase
	case GroupControl:
		return KindControl
	default:
		return KindUnknown
	}
}

// Recode normalizes the raw study-group encoding: 1 means case and 2 means
// control, in integer, float or string form, as do the labels themselves.
// Anything else passes through unchanged. Recode(Recode(x)) == Recode(x).
func Recode(raw string) StudyGroup {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "caso":
		return GroupCase
	case "controle":
		return GroupControl
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch f {
		case 1:
			return GroupCase
		case 2:
			return GroupControl
		}
	}
	return StudyGroup(raw)
}

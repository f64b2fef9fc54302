package notification

import (
	"testing"

	"gopkg.in/guregu/null.v3"
)

// TestDecodeAge tests decoding of the unit-prefixed age field
func TestDecodeAge(t *testing.T) {
	tests := []struct {
		raw  string
		want null.Int
	}{
		{"4025", null.IntFrom(25)},
		{"4000", null.IntFrom(0)},
		{"4009", null.IntFrom(9)},
		{"4105", null.IntFrom(105)},
		{"4025.0", null.IntFrom(25)},
		{" 4030 ", null.IntFrom(30)},
		{"3011", null.Int{}}, // months
		{"2015", null.Int{}}, // days
		{"1005", null.Int{}}, // hours
		{"4", null.Int{}},
		{"-4025", null.Int{}},
		{"", null.Int{}},
		{"abc", null.Int{}},
		{"nan", null.Int{}},
		{"NaN", null.Int{}},
	}

	for _, test := range tests {
		got := DecodeAge(test.raw)
		if got != test.want {
			t.Errorf("DecodeAge(%q) = %v, expected %v", test.raw, got, test.want)
		}
	}
}

// TestBandForBoundaries checks right-exclusive edges at every boundary
func TestBandForBoundaries(t *testing.T) {
	tests := []struct {
		age  int64
		want AgeBand
	}{
		{0, Band0to10},
		{9, Band0to10},
		{10, Band11to20},
		{19, Band11to20},
		{20, Band21to40},
		{39, Band21to40},
		{40, Band41to60},
		{59, Band41to60},
		{60, Band61to80},
		{79, Band61to80},
		{80, Band81Plus},
		{119, Band81Plus},
		{120, BandUndefined},
		{-1, BandUndefined},
	}

	for _, test := range tests {
		if got := BandFor(null.IntFrom(test.age)); got != test.want {
			t.Errorf("BandFor(%d) = %q, expected %q", test.age, got, test.want)
		}
	}

	if got := BandFor(null.Int{}); got != BandUndefined {
		t.Errorf("BandFor(null) = %q, expected undefined", got)
	}
}

func TestBandUndefinedWhenAgeNotInYears(t *testing.T) {
	for _, raw := range []string{"3011", "garbage", ""} {
		if band := BandFor(DecodeAge(raw)); band.Defined() {
			t.Errorf("expected undefined band for raw age %q, got %q", raw, band)
		}
	}
}

func TestAgeBandsOrder(t *testing.T) {
	bands := AgeBands()
	if len(bands) != 6 {
		t.Fatalf("expected 6 bands, got %d", len(bands))
	}
	for i, b := range bands {
		if b.Order() != i {
			t.Errorf("band %q has order %d, expected %d", b, b.Order(), i)
		}
	}
	if BandUndefined.Order() != -1 {
		t.Error("expected undefined band to have order -1")
	}
}

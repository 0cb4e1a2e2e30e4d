package units

import (
	"math"
	"testing"
	"time"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		metres   float64
		units    string
		expected float64
	}{
		{"1 m to cm", 1.0, CM, 100},
		{"1 m to mm", 1.0, MM, 1000},
		{"1 m to in", 1.0, IN, 39.3701},
		{"1 m to ft", 1.0, FT, 3.28084},
		{"1.03 m to m", 1.03, M, 1.03},
		{"unknown units default to m", 2.0, "furlong", 2.0},
		{"0 m to in", 0, IN, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLength(tt.metres, tt.units)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ConvertLength(%f, %s) = %f, want %f", tt.metres, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		unit     string
		expected bool
	}{
		{M, true},
		{CM, true},
		{MM, true},
		{IN, true},
		{FT, true},
		{"", false},
		{"CM", false},
		{"yd", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.unit); got != tt.expected {
			t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
		}
	}
	if got := GetValidUnitsString(); got != "m, cm, mm, in, ft" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}

func TestFormatLength(t *testing.T) {
	tests := []struct {
		metres float64
		units  string
		want   string
	}{
		{0.99, M, "0.990 m"},
		{0.99, CM, "99.0 cm"},
		{0.99, MM, "990 mm"},
		{0.99, FT, "3.25 ft"},
		{0.99, IN, "39.0 in"},
		{0.99, "bogus", "0.990 m"},
	}
	for _, tt := range tests {
		if got := FormatLength(tt.metres, tt.units); got != tt.want {
			t.Errorf("FormatLength(%v, %q) = %q, want %q", tt.metres, tt.units, got, tt.want)
		}
	}
}

func TestFromUnixNano(t *testing.T) {
	ns := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC).UnixNano()

	got, err := FromUnixNano(ns, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != time.UTC || got.Hour() != 12 {
		t.Errorf("FromUnixNano UTC = %v", got)
	}

	if !IsTimezoneValid("America/New_York") {
		t.Skip("tz database not available")
	}
	got, err = FromUnixNano(ns, "America/New_York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 7 {
		t.Errorf("New York hour = %d, want 7", got.Hour())
	}

	if _, err := FromUnixNano(ns, "Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
	if IsTimezoneValid("") {
		t.Error("empty timezone should be invalid")
	}
}

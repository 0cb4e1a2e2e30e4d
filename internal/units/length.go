// Package units provides shared constants and validation for length units
// and display time zones.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	M  = "m"
	CM = "cm"
	MM = "mm"
	IN = "in"
	FT = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{M, CM, MM, IN, FT}

// metresPer is how many metres one of each unit spans.
var metresPer = map[string]float64{
	M:  1,
	CM: 0.01,
	MM: 0.001,
	IN: 0.0254,
	FT: 0.3048,
}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	_, ok := metresPer[unit]
	return ok
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertLength converts a length in metres to the target units. Scene
// geometry is always in metres; unknown units leave the value unchanged.
func ConvertLength(metres float64, targetUnits string) float64 {
	per, ok := metresPer[targetUnits]
	if !ok {
		return metres
	}
	return metres / per
}

// FormatLength renders a length in metres for display in the target units.
func FormatLength(metres float64, targetUnits string) string {
	if !IsValid(targetUnits) {
		targetUnits = M
	}
	prec := 3
	switch targetUnits {
	case CM, IN:
		prec = 1
	case MM:
		prec = 0
	case FT:
		prec = 2
	}
	return fmt.Sprintf("%.*f %s", prec, ConvertLength(metres, targetUnits), targetUnits)
}

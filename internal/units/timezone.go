package units

import (
	"fmt"
	"time"
)

// IsTimezoneValid checks if the given timezone is known to the tz database.
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// FromUnixNano converts a stored unix-nanosecond timestamp to the given
// timezone for display. The log stores UTC instants.
func FromUnixNano(ns int64, tz string) (time.Time, error) {
	t := time.Unix(0, ns).UTC()
	if tz == "" || tz == "UTC" {
		return t, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t, fmt.Errorf("failed to load timezone %s: %w", tz, err)
	}
	return t.In(loc), nil
}

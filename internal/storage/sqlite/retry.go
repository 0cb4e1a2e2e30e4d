package sqlite

import (
	"strings"
	"time"
)

const (
	maxBusyRetries   = 5
	initialBusyDelay = 10 * time.Millisecond
)

// isSQLiteBusy reports whether err is SQLite's lock contention error.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn up to maxBusyRetries times, doubling the delay after
// each busy failure. Any other error is returned immediately.
func retryOnBusy(fn func() error) error {
	delay := initialBusyDelay
	var err error
	for attempt := 1; attempt <= maxBusyRetries; attempt++ {
		err = fn()
		if !isSQLiteBusy(err) {
			return err
		}
		if attempt < maxBusyRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}

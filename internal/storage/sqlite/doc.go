// Package sqlite persists height measurements and tap samples in a local
// SQLite database so runs can be compared over time.
//
// The schema is embedded and migrated on Open. All writes go through
// retryOnBusy so a second process reading the same file does not fail
// inserts outright.
package sqlite

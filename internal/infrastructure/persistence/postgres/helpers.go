package postgres

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// NULL MAPPING HELPERS
// ══════════════════════════════════════════════════════════════════════════════
// Optional references are empty strings in the domain and NULL UUID columns
// in the database; optional dates are zero time values and NULL timestamps.

// nullableID maps an empty domain ID to SQL NULL.
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

// idOrEmpty maps a scanned nullable ID back to the domain representation.
func idOrEmpty(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// nullableTime maps a zero time to SQL NULL.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// timeOrZero maps a scanned nullable timestamp back to the domain representation.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

package shared

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDateField parses an optional YYYY-MM-DD value. A blank value yields
// nil; a malformed one is recorded on v under field and also yields nil.
func ParseDateField(v *ValidationError, field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		v.Add(field, "Date has wrong format. Use YYYY-MM-DD.")
		return nil
	}
	return &t
}

// FormatDate renders t in DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate returns midnight UTC of the day t falls on in UTC. Database
// drivers may return date columns in the process's local zone.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

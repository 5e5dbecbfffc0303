package visit

import (
	"strings"
	"time"

	"github.com/evcraddock/fieldlog/internal/db"
)

// ValidDate reports whether s is a zero-padded YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil && len(s) == len(time.DateOnly)
}

// ValidTime reports whether s is a zero-padded 24-hour HH:MM time.
func ValidTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// ParseRange builds a Range from optional bounds, rejecting malformed dates
// that would otherwise compare wrongly.
func ParseRange(from, to string) (Range, error) {
	if from != "" && !ValidDate(from) {
		return Range{}, db.Invalid("from date %q must be YYYY-MM-DD", from)
	}
	if to != "" && !ValidDate(to) {
		return Range{}, db.Invalid("to date %q must be YYYY-MM-DD", to)
	}
	return Range{From: from, To: to}, nil
}

// Validate checks the fields a caller must supply before Save.
func (p SaveParams) Validate() error {
	if strings.TrimSpace(p.WorkPerformed) == "" {
		return db.Invalid("work performed is required")
	}
	if !ValidDate(p.Date) {
		return db.Invalid("date %q must be YYYY-MM-DD", p.Date)
	}
	if !ValidTime(p.StartTime) {
		return db.Invalid("start time %q must be HH:MM", p.StartTime)
	}
	if p.DurationMinutes < 0 {
		return db.Invalid("duration must not be negative")
	}
	return nil
}

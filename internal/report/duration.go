package report

import (
	"fmt"

	"github.com/evcraddock/fieldlog/internal/visit"
)

// TotalDuration sums the duration of visits in minutes.
func TotalDuration(visits []*visit.Visit) int {
	total := 0
	for _, v := range visits {
		total += v.DurationMinutes
	}
	return total
}

// FormatDuration renders minutes as "Hh Mm", dropping the hour part below
// one hour: 45 is "45m", 125 is "2h 5m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/evcraddock/fieldlog/internal/report"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows as aligned columns under header. empty is printed
// instead when there are no rows.
func printTable(w io.Writer, header []string, rows [][]string, empty string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(seps, "\t")); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// deref returns *s, or "-" for nil.
func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

// describeRange renders a date range for headings.
func describeRange(r visit.Range) string {
	switch {
	case r.From == "" && r.To == "":
		return "all dates"
	case r.From == "":
		return "up to " + r.To
	case r.To == "":
		return "from " + r.From
	default:
		return r.From + " to " + r.To
	}
}

// pendingLabel describes a visit's pending item in one word.
func pendingLabel(v *visit.Visit) string {
	switch v.PendingState() {
	case visit.PendingOpen:
		return "open"
	case visit.PendingResolved:
		return "resolved"
	default:
		return "-"
	}
}

// printVisitTable prints visits newest first with their durations.
func printVisitTable(w io.Writer, visits []*visit.Visit) error {
	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID),
			v.Date,
			v.StartTime,
			truncate(v.ClientName, 24),
			truncate(v.TechnicianName, 16),
			report.FormatDuration(v.DurationMinutes),
			pendingLabel(v),
			truncate(v.WorkPerformed, 40),
		})
	}
	if err := printTable(w, []string{"ID", "DATE", "START", "CLIENT", "TECHNICIAN", "TIME", "PENDING", "WORK"}, rows, "No visits recorded."); err != nil {
		return err
	}
	if len(visits) > 0 {
		_, err := fmt.Fprintf(w, "\nTotal: %d visits, %s\n", len(visits), report.FormatDuration(report.TotalDuration(visits)))
		return err
	}
	return nil
}

// printVisit prints a single visit in text format.
func printVisit(w io.Writer, v *visit.Visit) {
	fmt.Fprintf(w, "Visit #%d\n", v.ID)
	fmt.Fprintf(w, "  Client:      %s\n", v.ClientName)
	fmt.Fprintf(w, "  Technician:  %s\n", v.TechnicianName)
	if v.AttendedBy != nil {
		fmt.Fprintf(w, "  Attended by: %s\n", *v.AttendedBy)
	}
	fmt.Fprintf(w, "  Date:        %s %s\n", v.Date, v.StartTime)
	fmt.Fprintf(w, "  Duration:    %s\n", report.FormatDuration(v.DurationMinutes))
	fmt.Fprintf(w, "  Work:        %s\n", v.WorkPerformed)
	switch v.PendingState() {
	case visit.PendingOpen:
		fmt.Fprintf(w, "  Pending:     %s\n", deref(v.PendingDescription))
	case visit.PendingResolved:
		fmt.Fprintf(w, "  Pending:     %s (resolved)\n", deref(v.PendingDescription))
	}
}

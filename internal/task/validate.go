package task

import (
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// Validate checks the fields a caller must supply before Save.
func (p SaveParams) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return db.Invalid("description is required")
	}
	if p.DueDate != nil && !visit.ValidDate(*p.DueDate) {
		return db.Invalid("due date %q must be YYYY-MM-DD", *p.DueDate)
	}
	if p.DueTime != nil && !visit.ValidTime(*p.DueTime) {
		return db.Invalid("due time %q must be HH:MM", *p.DueTime)
	}
	return nil
}

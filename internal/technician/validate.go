package technician

import (
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
)

// ValidateName rejects a blank technician name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return db.Invalid("technician name is required")
	}
	return nil
}

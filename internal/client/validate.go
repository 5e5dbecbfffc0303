package client

import (
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Validate checks the fields a caller must supply before Save.
func (p SaveParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return db.Invalid("client name is required")
	}
	return nil
}

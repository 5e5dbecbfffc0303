package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no placeholders", "SELECT 1", "SELECT 1"},
		{"single", "SELECT * FROM clients WHERE id = ?", "SELECT * FROM clients WHERE id = $1"},
		{
			"several in order",
			"UPDATE clients SET name=?, email=?, phone=? WHERE id=?",
			"UPDATE clients SET name=$1, email=$2, phone=$3 WHERE id=$4",
		},
		{"inside string literal", "SELECT '?' , ? FROM t", "SELECT '?' , $1 FROM t"},
		{"escaped quote in literal", "SELECT 'it''s ?', ?", "SELECT 'it''s ?', $1"},
		{"quoted identifier", `SELECT "a?b" FROM t WHERE x = ?`, `SELECT "a?b" FROM t WHERE x = $1`},
		{"line comment", "SELECT ? -- why?\nFROM t WHERE y = ?", "SELECT $1 -- why?\nFROM t WHERE y = $2"},
		{"block comment", "SELECT /* ? */ ? FROM t", "SELECT /* ? */ $1 FROM t"},
		{"unterminated literal", "SELECT ? 'abc?", "SELECT $1 'abc?"},
		{"ten or more", "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rebind(tt.in))
		})
	}
}

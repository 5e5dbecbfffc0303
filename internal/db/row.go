package db

import (
	"strconv"
	"strings"
	"time"
)

// Accessors tolerate every Go type either driver produces for a column:
// int64, float64, bool, string, time.Time and nil. []byte values are
// converted to string when the row is built.

// Int64 returns the column as an integer, 0 when NULL or unparseable.
func (r Row) Int64(col string) int64 {
	n, _ := toInt64(r[col])
	return n
}

// NullInt64 returns nil when the column is NULL.
func (r Row) NullInt64(col string) *int64 {
	n, ok := toInt64(r[col])
	if !ok {
		return nil
	}
	return &n
}

// String returns the column as text, "" when NULL.
func (r Row) String(col string) string {
	s, _ := toString(r[col])
	return s
}

// NullString returns nil when the column is NULL.
func (r Row) NullString(col string) *string {
	s, ok := toString(r[col])
	if !ok {
		return nil
	}
	return &s
}

// Bool reads an integer flag column (0/1) or a native boolean.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return r.Int64(col) != 0
}

// Time returns the column as a timestamp, the zero time when NULL.
func (r Row) Time(col string) time.Time {
	t, _ := toTime(r[col])
	return t
}

// NullTime returns nil when the column is NULL.
func (r Row) NullTime(col string) *time.Time {
	t, ok := toTime(r[col])
	if !ok {
		return nil
	}
	return &t
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case []byte:
		return string(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	case time.Time:
		return s.Format(time.RFC3339), true
	}
	return "", false
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

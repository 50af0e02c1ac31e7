package database

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamps are stored as fixed-width UTC text so that lexical order matches
// chronological order in SQLite. PostgreSQL parses the same text into TIMESTAMPTZ.
const (
	TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"
	DateLayout      = "2006-01-02"
)

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatNullableTimestamp renders t for storage, or nil when t is nil.
func FormatNullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// FormatDate renders the calendar day of t for storage.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var scanLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// NullTime scans timestamp or date columns from either driver: SQLite yields
// text, PostgreSQL yields time.Time.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into NullTime", src)
	}
}

func (n *NullTime) parse(s string) error {
	for _, layout := range scanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", s)
}

// Value implements driver.Valuer.
func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return FormatTimestamp(n.Time), nil
}

// Ptr returns the time or nil when the column was NULL.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

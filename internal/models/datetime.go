package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// DateTime is a zone-less timestamp as exchanged with the backend
// (Java LocalDateTime). The zero value marshals to null.
type DateTime struct {
	time.Time
}

const wireLayout = "2006-01-02T15:04:05"

var dateLayouts = []string{
	wireLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime accepts the backend layouts plus the HTML date and
// datetime-local input formats.
func ParseDateTime(v string) (DateTime, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return DateTime{t}, nil
		}
	}
	return DateTime{}, fmt.Errorf("date invalide: %q", v)
}

func NewDateTime(t time.Time) DateTime { return DateTime{t} }

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(wireLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = DateTime{}
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Display formats as dd/mm/yyyy, the form used by list filters.
func (d DateTime) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// DisplayTime formats as dd/mm/yyyy HH:MM.
func (d DateTime) DisplayTime() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006 15:04")
}

// InputValue formats for an <input type="datetime-local">.
func (d DateTime) InputValue() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02T15:04")
}

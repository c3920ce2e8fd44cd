package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Violations maps a form field to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Has reports whether field already failed; the first violation wins.
func (v Violations) Has(field string) bool {
	_, ok := v[field]
	return ok
}

func (v Violations) add(field, code string) {
	if !v.Has(field) {
		v[field] = code
	}
}

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "required")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.add(field, "must_be_positive")
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v.add(field, "must_be_positive")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.add(field, "out_of_range")
	}
}

// Email checks the something@domain.tld shape. Empty values are left to Required.
func Email(field, value string, v Violations) {
	if value != "" && !emailRe.MatchString(strings.TrimSpace(value)) {
		v.add(field, "invalid_email")
	}
}

// Phone checks a 10-digit number. Empty values are left to Required.
func Phone(field, value string, v Violations) {
	if value != "" && !phoneRe.MatchString(strings.TrimSpace(value)) {
		v.add(field, "invalid_phone")
	}
}

// Rating validates an optional 0..5 note and returns it (nil when empty).
func Rating(field, raw string, v Violations) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := ParseFloat(raw)
	if err != nil {
		v.add(field, "invalid_number")
		return nil
	}
	RangeFloat(field, n, 0, 5, v)
	return &n
}

// ParseFloat accepts both "12.5" and "12,5".
func ParseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
}

// Float parses a required number field.
func Float(field, raw string, v Violations) float64 {
	if strings.TrimSpace(raw) == "" {
		v.add(field, "required")
		return 0
	}
	n, err := ParseFloat(raw)
	if err != nil {
		v.add(field, "invalid_number")
		return 0
	}
	return n
}

// Int parses a required integer field.
func Int(field, raw string, v Violations) int {
	if strings.TrimSpace(raw) == "" {
		v.add(field, "required")
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v.add(field, "invalid_number")
		return 0
	}
	return n
}

// ID parses a required positive identifier (select boxes).
func ID(field, raw string, v Violations) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		v.add(field, "required")
		return 0
	}
	return n
}

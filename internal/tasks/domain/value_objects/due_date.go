package value_objects

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDueDate = errors.New("invalid due date")
)

// DateLayout is the canonical layout for date-only due dates.
const DateLayout = "2006-01-02"

// dueDateLayouts are tried in order when a due date is read. Layouts without a zone
// are interpreted in the local time zone.
var dueDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04",
	"02/01/2006",
}

// DueDate is an optional deadline. The raw text is kept as given so that values that
// fail to parse survive a save/load cycle; parsing happens each time the instant is
// needed.
type DueDate struct {
	raw string
}

// NoDueDate is the unset due date.
var NoDueDate = DueDate{}

// NewDueDate wraps raw text without validating it.
func NewDueDate(raw string) DueDate {
	return DueDate{raw: strings.TrimSpace(raw)}
}

// ParseDueDate wraps raw text and rejects values no known layout accepts.
// Empty input yields NoDueDate.
func ParseDueDate(raw string) (DueDate, error) {
	d := NewDueDate(raw)
	if d.IsSet() && !d.IsValid() {
		return NoDueDate, ErrInvalidDueDate
	}
	return d, nil
}

// DueOn returns a date-only due date for the calendar day of t.
func DueOn(t time.Time) DueDate {
	return DueDate{raw: t.Format(DateLayout)}
}

// DueAt returns a due date for the exact instant t.
func DueAt(t time.Time) DueDate {
	return DueDate{raw: t.Format(time.RFC3339)}
}

// IsSet reports whether any due date text is present.
func (d DueDate) IsSet() bool { return d.raw != "" }

// Raw returns the due date text as stored.
func (d DueDate) Raw() string { return d.raw }

// IsValid reports whether the due date is set and parses.
func (d DueDate) IsValid() bool {
	_, ok := d.Time()
	return ok
}

// Time parses the due date. It returns false if the date is unset or unparsable.
func (d DueDate) Time() (time.Time, bool) {
	if d.raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, d.raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDateOnly reports whether the due date names a calendar day without a time.
func (d DueDate) IsDateOnly() bool {
	for _, layout := range []string{DateLayout, "02/01/2006"} {
		if _, err := time.Parse(layout, d.raw); err == nil {
			return true
		}
	}
	return false
}

// Before reports whether the due date parses and falls strictly before t.
func (d DueDate) Before(t time.Time) bool {
	due, ok := d.Time()
	return ok && due.Before(t)
}

// String formats the due date for display; unparsable values are shown raw.
func (d DueDate) String() string {
	t, ok := d.Time()
	if !ok {
		return d.raw
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format("2006-01-02 15:04")
}

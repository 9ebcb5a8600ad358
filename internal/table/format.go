package table

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the locale-independent display format for date columns.
const DateLayout = "2006-01-02 15:04"

// ErrMissingField is wrapped by FormatError when a record lacks a column key.
var ErrMissingField = errors.New("field not present")

// FormatError reports a cell that could not be formatted.
type FormatError struct {
	Key   string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("format %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("format %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// FormatValue renders one raw value for display in col.
func FormatValue(value string, present bool, col Column) (string, error) {
	if !present {
		return "", &FormatError{Key: col.Key, Err: ErrMissingField}
	}

	switch col.Type {
	case TypeDate:
		t, err := ParseDate(value)
		if err != nil {
			return "", &FormatError{Key: col.Key, Value: value, Err: err}
		}
		return t.Format(DateLayout), nil
	case TypeURL:
		return value, nil
	default:
		return col.Formatter.apply(value), nil
	}
}

// FormatCell renders the value of col.Key in rec.
func FormatCell(rec Record, col Column) (string, error) {
	v, ok := rec.Get(col.Key)
	return FormatValue(v, ok, col)
}

func (f Formatter) apply(s string) string {
	switch f {
	case FormatStripNewlines:
		return strings.NewReplacer("\r", "", "\n", "").Replace(s)
	default:
		return s
	}
}

// ParseDate parses an RFC 2822 timestamp as sent by the service.
// Values already in DateLayout are accepted so pre-normalized records
// render unchanged.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeDate converts an RFC 2822 timestamp to DateLayout.
// The wall clock of the source zone is kept, not converted.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// Package table renders string-keyed records as aligned terminal tables.
//
// A table is described by an ordered slice of Column values. Each column
// names the record key it reads, how the raw value is formatted, an optional
// color, and what happens when the content does not fit the terminal:
//
//   - OverflowKeep columns always get their natural width (IDs, dates, URLs).
//   - OverflowTruncate columns share the remaining width proportionally and
//     cut overlong cells with a trailing ellipsis.
//   - OverflowWrap columns share the width like truncate columns but fold
//     overlong cells onto continuation lines.
//
// Rendering never fails: a cell that cannot be formatted is left empty and a
// layout that cannot fit the terminal simply produces longer lines.
package table

import (
	"github.com/muesli/termenv"
)

// Type is the semantic type of a column's values.
type Type int

const (
	// TypeText renders the value as-is (after the column's Formatter).
	TypeText Type = iota
	// TypeDate renders an RFC 2822 timestamp as "YYYY-MM-DD HH:MM".
	TypeDate
	// TypeURL renders the value as-is.
	TypeURL
)

// Overflow controls how a column behaves when the table is wider than the terminal.
type Overflow int

const (
	// OverflowKeep never shrinks the column below its natural width.
	OverflowKeep Overflow = iota
	// OverflowTruncate cuts overlong cells and appends Ellipsis.
	OverflowTruncate
	// OverflowWrap folds overlong cells onto continuation lines.
	OverflowWrap
)

// Formatter is a closed set of per-column value transforms.
type Formatter int

const (
	// FormatIdentity leaves the value unchanged.
	FormatIdentity Formatter = iota
	// FormatStripNewlines removes embedded line breaks.
	FormatStripNewlines
)

// Color is a closed set of named column colors.
type Color int

const (
	ColorNone Color = iota
	ColorHeader
	ColorBlue
	ColorCyan
	ColorGreen
	ColorYellow
	ColorRed
	ColorBold
	ColorUnderline
)

// Ellipsis marks a truncated cell. It occupies exactly one display cell.
const Ellipsis = "…"

// Column describes one output column.
type Column struct {
	Key       string
	Header    string
	Type      Type
	Color     Color
	Formatter Formatter
	Overflow  Overflow
}

// style applies the column color to s under the given profile.
// Padding is added by the caller so escape sequences never affect alignment.
func (c Color) style(p termenv.Profile, s string) string {
	if c == ColorNone || s == "" {
		return s
	}
	st := p.String(s)
	switch c {
	case ColorHeader:
		st = st.Foreground(p.Convert(termenv.ANSIMagenta))
	case ColorBlue:
		st = st.Foreground(p.Convert(termenv.ANSIBlue))
	case ColorCyan:
		st = st.Foreground(p.Convert(termenv.ANSICyan))
	case ColorGreen:
		st = st.Foreground(p.Convert(termenv.ANSIGreen))
	case ColorYellow:
		st = st.Foreground(p.Convert(termenv.ANSIYellow))
	case ColorRed:
		st = st.Foreground(p.Convert(termenv.ANSIRed))
	case ColorBold:
		st = st.Bold()
	case ColorUnderline:
		st = st.Underline()
	}
	return st.String()
}

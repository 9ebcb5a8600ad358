package table

import (
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/muesli/termenv"
)

// DefaultSeparator is placed between adjacent columns.
const DefaultSeparator = "  "

// singleLine keeps every cell on one physical line.
var singleLine = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Options controls a single Render call.
type Options struct {
	// Width is the terminal width in cells. Values <= 0 use FallbackWidth.
	Width int
	// Separator between columns. Empty uses DefaultSeparator.
	Separator string
	// Color enables column colors. When false no escape sequences are written.
	Color bool
	// Profile selects the escape sequences used when Color is set.
	Profile termenv.Profile
}

func (o Options) profile() termenv.Profile {
	if !o.Color {
		return termenv.Ascii
	}
	return o.Profile
}

// Render lays out records under cols and returns the table without a
// trailing newline. An empty record slice yields the header line only.
func Render(records []Record, cols []Column, opts Options) string {
	if len(cols) == 0 {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = FallbackWidth
	}
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	profile := opts.profile()

	cells := make([][]string, len(records))
	natural := make([]int, len(cols))
	for i, c := range cols {
		natural[i] = runewidth.StringWidth(c.Header)
	}
	for r, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			s, err := FormatCell(rec, c)
			if err != nil {
				slog.Debug("rendering empty cell", "key", c.Key, "error", err)
				s = ""
			}
			s = singleLine.Replace(s)
			row[i] = s
			if w := runewidth.StringWidth(s); w > natural[i] {
				natural[i] = w
			}
		}
		cells[r] = row
	}

	widths := Allocate(width, runewidth.StringWidth(sep), cols, natural)

	var b strings.Builder
	header := make([][]string, len(cols))
	for i, c := range cols {
		header[i] = []string{fit(c.Header, widths[i])}
	}
	writeRow(&b, header, cols, widths, sep, profile)

	for _, row := range cells {
		parts := make([][]string, len(cols))
		for i, c := range cols {
			if c.Overflow == OverflowWrap {
				parts[i] = fold(row[i], widths[i])
			} else {
				parts[i] = []string{fit(row[i], widths[i])}
			}
		}
		b.WriteByte('\n')
		writeRow(&b, parts, cols, widths, sep, profile)
	}
	return b.String()
}

// writeRow emits one logical row, which spans several lines when a wrap
// column folded its content.
func writeRow(b *strings.Builder, parts [][]string, cols []Column, widths []int, sep string, p termenv.Profile) {
	height := 1
	for _, lines := range parts {
		if len(lines) > height {
			height = len(lines)
		}
	}

	for ln := 0; ln < height; ln++ {
		if ln > 0 {
			b.WriteByte('\n')
		}
		var line strings.Builder
		for i := range cols {
			text := ""
			if ln < len(parts[i]) {
				text = parts[i][ln]
			}
			if i > 0 {
				line.WriteString(sep)
			}
			line.WriteString(cols[i].Color.style(p, text))
			if i < len(cols)-1 {
				if gap := widths[i] - runewidth.StringWidth(text); gap > 0 {
					line.WriteString(strings.Repeat(" ", gap))
				}
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
	}
}

// fit cuts s to at most w display cells, marking the cut with Ellipsis.
func fit(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, Ellipsis)
}

// fold wraps s at word boundaries into lines of at most w cells.
// Words longer than w are hard-broken.
func fold(s string, w int) []string {
	if runewidth.StringWidth(s) <= w || w <= 0 {
		return []string{fit(s, w)}
	}
	wrapped := wrap.String(wordwrap.String(s, w), w)
	lines := strings.Split(wrapped, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRight(l, " ")
		if l == "" {
			continue
		}
		out = append(out, fit(l, w))
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

package table

import (
	"regexp"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func testColumns() []Column {
	return []Column{
		{Key: "id", Header: "ID", Type: TypeText, Overflow: OverflowKeep},
		{Key: "name", Header: "Name", Type: TypeText, Overflow: OverflowTruncate},
		{Key: "summary", Header: "Summary", Type: TypeText, Formatter: FormatStripNewlines, Overflow: OverflowTruncate},
	}
}

func TestRender_EmptyRecordsHeaderOnly(t *testing.T) {
	out := Render(nil, testColumns(), Options{Width: 80})
	assert.Equal(t, "ID  Name  Summary", out)
	assert.NotContains(t, out, "\n")
}

func TestRender_LineCount(t *testing.T) {
	records := []Record{
		{"id": "a", "name": "first", "summary": "one\ntwo"},
		{"id": "b", "name": "second", "summary": strings.Repeat("x", 200)},
		{"id": "c", "name": "third\nline"},
	}

	for _, width := range []int{20, 40, 80, 300} {
		out := Render(records, testColumns(), Options{Width: width})
		lines := strings.Split(out, "\n")
		assert.Len(t, lines, len(records)+1, "width %d", width)
	}
}

func TestRender_Truncation(t *testing.T) {
	records := []Record{
		{"id": "a1", "name": "abcdefghij", "summary": "0123456789012345678901234567890123456789"},
	}

	out := Render(records, testColumns(), Options{Width: 30})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "ID  Name   Summary", lines[0])
	assert.Equal(t, "a1  abcd…  012345678901234567…", lines[1])
	assert.Equal(t, 30, runewidth.StringWidth(lines[1]))
}

func TestRender_NoTruncationWhenFits(t *testing.T) {
	records := []Record{
		{"id": "a1", "name": "short", "summary": "also short"},
	}

	out := Render(records, testColumns(), Options{Width: 80})
	assert.NotContains(t, out, Ellipsis)
	assert.Contains(t, out, "also short")
}

func TestRender_TruncatedCellWidthEqualsAllocation(t *testing.T) {
	cols := []Column{
		{Key: "id", Header: "ID", Overflow: OverflowKeep},
		{Key: "text", Header: "Text", Overflow: OverflowTruncate},
	}
	records := []Record{{"id": "x", "text": strings.Repeat("y", 50)}}

	out := Render(records, cols, Options{Width: 20})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	// "x " + "  " leaves 16 cells for the text column.
	cell := strings.TrimPrefix(lines[1], "x   ")
	assert.Equal(t, 16, runewidth.StringWidth(cell))
	assert.True(t, strings.HasSuffix(cell, Ellipsis))
}

func TestRender_KeepColumnsNeverShrink(t *testing.T) {
	cols := []Column{
		{Key: "id", Header: "ID", Overflow: OverflowKeep},
		{Key: "uri", Header: "Url", Type: TypeURL, Overflow: OverflowKeep},
		{Key: "name", Header: "Name", Overflow: OverflowTruncate},
	}
	uri := "https://novem.no/p/" + strings.Repeat("a", 40)
	records := []Record{{"id": "plot-1", "uri": uri, "name": strings.Repeat("n", 30)}}

	for _, width := range []int{10, 40, 70, 200} {
		out := Render(records, cols, Options{Width: width})
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[1], "plot-1  "+uri+"  "), "width %d: %q", width, lines[1])
	}
}

func TestRender_MissingAndBadFieldsRenderEmpty(t *testing.T) {
	cols := []Column{
		{Key: "id", Header: "ID", Overflow: OverflowKeep},
		{Key: "created", Header: "Created", Type: TypeDate, Overflow: OverflowKeep},
		{Key: "name", Header: "Name", Overflow: OverflowTruncate},
	}
	records := []Record{
		{"id": "a", "created": "not a date", "name": "first"},
		{"id": "b", "created": "Wed, 02 Oct 2024 10:15:00 GMT"},
	}

	out := Render(records, cols, Options{Width: 80})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  Created           Name", lines[0])
	assert.Equal(t, "a                     first", lines[1])
	assert.Equal(t, "b   2024-10-02 10:15", lines[2])
}

func TestRender_Idempotent(t *testing.T) {
	records := []Record{
		{"id": "a", "name": strings.Repeat("n", 60), "summary": strings.Repeat("s", 90)},
		{"id": "b", "name": "x", "summary": "y"},
	}
	opts := Options{Width: 50, Color: true, Profile: termenv.ANSI}

	first := Render(records, testColumns(), opts)
	second := Render(records, testColumns(), opts)
	assert.Equal(t, first, second)
}

func TestRender_ColorWrapsTextOnly(t *testing.T) {
	cols := []Column{
		{Key: "type", Header: "Type", Color: ColorCyan, Overflow: OverflowKeep},
		{Key: "name", Header: "Name", Overflow: OverflowTruncate},
	}
	records := []Record{{"type": "bar", "name": "sales"}}

	plain := Render(records, cols, Options{Width: 80})
	colored := Render(records, cols, Options{Width: 80, Color: true, Profile: termenv.ANSI})

	assert.Contains(t, colored, "\x1b[36mbar\x1b[0m")
	assert.NotContains(t, plain, "\x1b[")
	assert.Equal(t, plain, ansiSeq.ReplaceAllString(colored, ""))
}

func TestRender_ColorDisabledIgnoresProfile(t *testing.T) {
	cols := []Column{{Key: "type", Header: "Type", Color: ColorRed}}
	out := Render([]Record{{"type": "x"}}, cols, Options{Width: 80, Profile: termenv.TrueColor})
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_WrapColumn(t *testing.T) {
	cols := []Column{
		{Key: "id", Header: "ID", Overflow: OverflowKeep},
		{Key: "text", Header: "Text", Overflow: OverflowWrap},
	}
	records := []Record{{"id": "x1", "text": "alpha beta gamma delta"}}

	out := Render(records, cols, Options{Width: 20})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  Text", lines[0])
	assert.Equal(t, "x1  alpha beta gamma", lines[1])
	assert.Equal(t, "    delta", lines[2])
}

func TestRender_CustomSeparator(t *testing.T) {
	cols := []Column{
		{Key: "a", Header: "A"},
		{Key: "b", Header: "B"},
	}
	out := Render([]Record{{"a": "1", "b": "2"}}, cols, Options{Width: 80, Separator: " | "})
	assert.Equal(t, "A | B\n1 | 2", out)
}

func TestRender_NoColumns(t *testing.T) {
	assert.Equal(t, "", Render([]Record{{"a": "1"}}, nil, Options{}))
}

package cli

import (
	"strings"
	"unicode/utf8"
)

// Table formats rows into aligned columns. Cells may carry ANSI colour
// escapes; widths are measured on the visible text only.
type Table struct {
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		padding: 2,
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	fitted := make([]string, len(t.headers))
	copy(fitted, row)
	t.rows = append(t.rows, fitted)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleLen(cell))
		}
	}

	var b strings.Builder
	sep := strings.Repeat(" ", t.padding)
	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = padRight(c, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		b.WriteString("\n")
	}

	writeLine(t.headers)
	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	writeLine(dashes)
	for _, row := range t.rows {
		writeLine(row)
	}
	return b.String()
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// visibleLen counts the runes of s outside ANSI CSI escape sequences.
func visibleLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}

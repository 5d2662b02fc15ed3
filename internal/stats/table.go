package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one report column: its title and whether numeric cells hug the
// right edge.
type column struct {
	title string
	right bool
}

func left(title string) column  { return column{title: title} }
func right(title string) column { return column{title: title, right: true} }

// table accumulates report rows under a fixed set of columns. Cells beyond
// the column count are dropped; missing cells render blank.
type table struct {
	cols []column
	rows [][]string
}

func newTable(cols ...column) *table {
	return &table{cols: cols}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// lines renders the header and every row, each column padded to its widest
// cell measured in terminal cells.
func (t *table) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	widths := make([]int, len(t.cols))
	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.title
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.render(header, widths))
	for _, row := range t.rows {
		out = append(out, t.render(row, widths))
	}
	return out
}

func (t *table) render(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		gap := strings.Repeat(" ", max(0, widths[i]-runewidth.StringWidth(cell)))
		if t.cols[i].right {
			b.WriteString(gap + cell)
		} else {
			b.WriteString(cell + gap)
		}
	}
	return b.String()
}

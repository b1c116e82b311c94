// Package formatter renders model state and simulation output as text tables,
// markdown reports and JSON Lines traces.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// DefaultPrecision is the number of decimals used for float cells.
const DefaultPrecision = 4

// Table formats columnar output using tabwriter.
type Table struct {
	w             *tabwriter.Writer
	headers       []string
	maxWidth      map[int]int // column index -> max width (0 = unlimited)
	precision     int
	headerWritten bool
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:         tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers:   headers,
		maxWidth:  make(map[int]int),
		precision: DefaultPrecision,
	}
}

// SetMaxWidth sets the maximum display width for a column (0-indexed).
// Values exceeding the limit are truncated with "...".
func (t *Table) SetMaxWidth(col, width int) *Table {
	t.maxWidth[col] = width
	return t
}

// SetPrecision sets the decimals used by AddFloatRow. Negative values use the
// shortest exact representation.
func (t *Table) SetPrecision(p int) *Table {
	t.precision = p
	return t
}

// AddRow appends a data row. Extra values beyond the header count are ignored;
// missing values are filled with empty strings.
func (t *Table) AddRow(values ...string) {
	if !t.headerWritten {
		t.headerWritten = true
		t.writeCells(t.headers)
		sep := make([]string, len(t.headers))
		for i, h := range t.headers {
			sep[i] = strings.Repeat("-", len(h))
		}
		t.writeCells(sep)
	}

	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = t.truncate(i, values[i])
		}
	}
	t.writeCells(cells)
}

// AddFloatRow appends a row whose first cell is label and the rest are vs.
func (t *Table) AddFloatRow(label string, vs ...float64) {
	cells := make([]string, 0, len(vs)+1)
	cells = append(cells, label)
	for _, v := range vs {
		cells = append(cells, FormatFloat(v, t.precision))
	}
	t.AddRow(cells...)
}

// Render flushes the underlying tabwriter. Must be called after all AddRow calls.
func (t *Table) Render() error {
	return t.w.Flush()
}

func (t *Table) writeCells(cells []string) {
	//nolint:errcheck // tabwriter errors surface on Flush
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *Table) truncate(col int, s string) string {
	max, ok := t.maxWidth[col]
	if !ok || max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// FormatFloat renders v with the given decimals, or the shortest form when
// precision is negative.
func FormatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

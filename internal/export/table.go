// Package export holds the rectangular result table model and its text
// renderers (markdown, LaTeX, CSV, JSON).
package export

import (
	"fmt"
	"math"
	"strconv"
)

// ColumnKey is a two-level column identifier. Group is empty for flat
// tables and names the setup (or other grouping) in comparison tables.
type ColumnKey struct {
	Group string
	Name  string
}

// String renders the key the way headers display it.
func (k ColumnKey) String() string {
	if k.Group == "" {
		return k.Name
	}
	return k.Group + "/" + k.Name
}

// Table is a rectangular table of float64 cells with labelled rows and
// two-level column keys. Missing values are NaN; every renderer knows how
// to display them, so producers never have to special-case ragged data.
type Table struct {
	Index   []string
	Columns []ColumnKey
	Cells   [][]float64
}

// NewTable creates an empty table with the given flat column names.
func NewTable(columns ...string) *Table {
	keys := make([]ColumnKey, len(columns))
	for i, c := range columns {
		keys[i] = ColumnKey{Name: c}
	}
	return &Table{Columns: keys}
}

// NewGroupedTable creates an empty table with explicit column keys.
func NewGroupedTable(columns ...ColumnKey) *Table {
	return &Table{Columns: append([]ColumnKey(nil), columns...)}
}

// AppendRow adds one labelled row. The number of cells must match the
// number of columns; this is a programming invariant, not input data.
func (t *Table) AppendRow(label string, cells ...float64) {
	if len(cells) != len(t.Columns) {
		panic("export: row width does not match column count")
	}
	t.Index = append(t.Index, label)
	t.Cells = append(t.Cells, append([]float64(nil), cells...))
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int { return len(t.Cells) }

// Value returns the cell at the given row label and flat column name.
// Asking for a cell that does not exist is a programming error.
func (t *Table) Value(rowLabel, column string) float64 {
	ri := -1
	for i, label := range t.Index {
		if label == rowLabel {
			ri = i
			break
		}
	}
	ci := -1
	for i, c := range t.Columns {
		if c.Group == "" && c.Name == column {
			ci = i
			break
		}
	}
	if ri < 0 || ci < 0 {
		panic(fmt.Sprintf("export: no cell (%q, %q)", rowLabel, column))
	}
	return t.Cells[ri][ci]
}

// DropRow returns a copy of the table without the row carrying the given
// label.
func (t *Table) DropRow(label string) *Table {
	out := &Table{Columns: t.Columns}
	for i, l := range t.Index {
		if l == label {
			continue
		}
		out.Index = append(out.Index, l)
		out.Cells = append(out.Cells, t.Cells[i])
	}
	return out
}

// Grouped reports whether any column carries a non-empty group level.
func (t *Table) Grouped() bool {
	for _, c := range t.Columns {
		if c.Group != "" {
			return true
		}
	}
	return false
}

// slice returns a new table containing the column range [from, to).
func (t *Table) slice(from, to int) *Table {
	out := &Table{
		Index:   t.Index,
		Columns: t.Columns[from:to],
	}
	for _, row := range t.Cells {
		out.Cells = append(out.Cells, row[from:to])
	}
	return out
}

// formatCell renders a single value. Integral values print without a
// fractional part (duration columns are microsecond integers); NaN prints
// as the given sentinel.
func formatCell(v float64, nan string) string {
	if math.IsNaN(v) {
		return nan
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Formats supported by Export.
const (
	FormatMarkdown = "md"
	FormatLaTeX    = "tex"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// ErrUnknownFormat reports an unsupported table format.
type ErrUnknownFormat struct {
	Format string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("table format %q not supported", e.Format)
}

// Export renders the table in the requested format and writes it to path.
func Export(t *Table, path, format string, includeIndex bool) error {
	var out string
	var err error
	switch format {
	case FormatMarkdown:
		out = Markdown(t, includeIndex)
	case FormatLaTeX:
		out = LaTeX(t, includeIndex)
	case FormatCSV:
		out, err = CSV(t, includeIndex)
	case FormatJSON:
		out, err = JSON(t)
	default:
		return &ErrUnknownFormat{Format: format}
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// Markdown renders a pipe table. Wide tables (more than 6 columns) are
// split into two stacked halves so they stay readable in rendered docs.
func Markdown(t *Table, includeIndex bool) string {
	if len(t.Columns) > 6 {
		split := (len(t.Columns) + 1) / 2
		return markdownOne(t.slice(0, split), includeIndex) + "\n" +
			markdownOne(t.slice(split, len(t.Columns)), includeIndex)
	}
	return markdownOne(t, includeIndex)
}

func markdownOne(t *Table, includeIndex bool) string {
	var header []string
	if includeIndex {
		header = append(header, "")
	}
	for _, c := range t.Columns {
		header = append(header, c.String())
	}

	rows := [][]string{header}
	for i, cells := range t.Cells {
		var row []string
		if includeIndex {
			row = append(row, t.Index[i])
		}
		for _, v := range cells {
			row = append(row, formatCell(v, "nan"))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteString("\n")
	}
	writeRow(rows[0])
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

// LaTeX renders a booktabs tabular environment.
func LaTeX(t *Table, includeIndex bool) string {
	var b strings.Builder

	cols := len(t.Columns)
	spec := strings.Repeat("r", cols)
	if includeIndex {
		spec = "l" + spec
	}
	fmt.Fprintf(&b, "\\begin{tabular}{%s}\n\\toprule\n", spec)

	var header []string
	if includeIndex {
		header = append(header, "")
	}
	for _, c := range t.Columns {
		header = append(header, escapeLaTeX(c.String()))
	}
	b.WriteString(strings.Join(header, " & "))
	b.WriteString(" \\\\\n\\midrule\n")

	for i, cells := range t.Cells {
		var row []string
		if includeIndex {
			row = append(row, escapeLaTeX(t.Index[i]))
		}
		for _, v := range cells {
			row = append(row, formatCell(v, "NaN"))
		}
		b.WriteString(strings.Join(row, " & "))
		b.WriteString(" \\\\\n")
	}

	b.WriteString("\\bottomrule\n\\end{tabular}\n")
	return b.String()
}

func escapeLaTeX(s string) string {
	r := strings.NewReplacer("_", "\\_", "%", "\\%", "&", "\\&", "#", "\\#")
	return r.Replace(s)
}

// CSV renders the table with encoding/csv. Grouped tables get two header
// rows (group level, then name level) so readers can reconstruct the
// two-level column index; NaN cells are written empty.
func CSV(t *Table, includeIndex bool) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	writeHeader := func(pick func(ColumnKey) string) error {
		var row []string
		if includeIndex {
			row = append(row, "")
		}
		for _, c := range t.Columns {
			row = append(row, pick(c))
		}
		return w.Write(row)
	}

	if t.Grouped() {
		if err := writeHeader(func(c ColumnKey) string { return c.Group }); err != nil {
			return "", err
		}
		if err := writeHeader(func(c ColumnKey) string { return c.Name }); err != nil {
			return "", err
		}
	} else {
		if err := writeHeader(func(c ColumnKey) string { return c.Name }); err != nil {
			return "", err
		}
	}

	for i, cells := range t.Cells {
		var row []string
		if includeIndex {
			row = append(row, t.Index[i])
		}
		for _, v := range cells {
			row = append(row, formatCell(v, ""))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return b.String(), w.Error()
}

// JSON renders the table column-oriented: column key -> row label -> value.
// NaN is not representable in JSON, so missing cells are encoded as null.
func JSON(t *Table) (string, error) {
	doc := make(map[string]map[string]*float64, len(t.Columns))
	for ci, c := range t.Columns {
		col := make(map[string]*float64, len(t.Cells))
		for ri, cells := range t.Cells {
			label := t.Index[ri]
			if label == "" {
				label = fmt.Sprintf("%d", ri)
			}
			v := cells[ci]
			if math.IsNaN(v) {
				col[label] = nil
			} else {
				value := v
				col[label] = &value
			}
		}
		doc[c.String()] = col
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

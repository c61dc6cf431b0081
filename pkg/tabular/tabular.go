// Package tabular reads ordered, named-column row streams from CSV files
// and Excel workbooks. Rows preserve document order, which downstream
// catalog building depends on, and absent cells read as empty strings so
// sparse merged-cell sheets degrade to "no value here" rather than errors.
package tabular

import (
	"strings"
)

// Row is one record from a tabular source. Cells are addressed by the
// column names in the source's header row. A Row is immutable once read.
type Row struct {
	cells map[string]string
	// Line is the 1-based position of the row in the source, counted
	// after any skipped leading rows. Used in diagnostics only.
	Line int
}

// NewRow builds a row from a header and an ordered cell slice. Cells
// beyond the header width are ignored; missing trailing cells read as
// empty. Header names are normalized with newlines collapsed to spaces,
// matching sheets whose headers wrap across lines.
func NewRow(header []string, cells []string, line int) Row {
	values := make(map[string]string, len(header))
	for i, name := range header {
		value := ""
		if i < len(cells) {
			value = strings.TrimSpace(cells[i])
		}
		values[NormalizeColumn(name)] = value
	}
	return Row{cells: values, Line: line}
}

// Get returns the trimmed cell value for a column, or the empty string
// when the column is absent or blank.
func (r Row) Get(column string) string {
	return r.cells[NormalizeColumn(column)]
}

// Has reports whether the column holds a non-empty value.
func (r Row) Has(column string) bool {
	return r.Get(column) != ""
}

// NormalizeColumn canonicalizes a column name for lookup: embedded
// newlines become single spaces and surrounding whitespace is trimmed.
// Source sheets wrap header text ("Focal Document\nElement"), and
// configuration should not have to reproduce the wrapping.
func NormalizeColumn(name string) string {
	name = strings.ReplaceAll(name, "\r\n", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	return strings.TrimSpace(name)
}

// Options controls how a source is read.
type Options struct {
	// Sheet selects the worksheet by name for Excel sources. Ignored for
	// CSV. Empty selects the workbook's first sheet.
	Sheet string

	// SkipRows drops this many leading rows before the header row,
	// matching sheets that carry banner rows above their real header.
	SkipRows int

	// SkipSubHeader drops one row immediately after the header row.
	// Comparison workbooks carry a second descriptive header row that is
	// metadata, not data.
	SkipSubHeader bool
}

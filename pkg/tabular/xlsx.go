package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads all rows from one worksheet of an Excel workbook. Sheet
// selection, leading-row skipping, and sub-header skipping behave as for
// ReadCSV. A missing workbook or sheet is a fatal configuration error.
func ReadXLSX(path string, opts Options) ([]Row, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer wb.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}

	records, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
	}

	if opts.SkipRows >= len(records) {
		return nil, fmt.Errorf("sheet %q of %s has %d rows, cannot skip %d",
			sheet, path, len(records), opts.SkipRows)
	}
	records = records[opts.SkipRows:]

	header := records[0]
	records = records[1:]
	if opts.SkipSubHeader && len(records) > 0 {
		records = records[1:]
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		rows = append(rows, NewRow(header, record, i+1))
	}
	return rows, nil
}

package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads all rows from a CSV file. The first row after any skipped
// rows is the header; every later row becomes a Row keyed by that header.
// The input is fully materialized before processing begins.
func ReadCSV(path string, opts Options) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := readCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func readCSV(r io.Reader, opts Options) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping leading rows: %w", err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if opts.SkipSubHeader {
		if _, err := reader.Read(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("skipping sub-header: %w", err)
		}
	}

	var rows []Row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		line++
		rows = append(rows, NewRow(header, record, line))
	}
	return rows, nil
}

package crosswalk

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// columnNames is the crosswalk template header. The column order is fixed
// by the downstream mapping-collection converter.
var columnNames = []string{
	"$$Source_Resource",
	"$$Target_Resource",
	"$$Map_Source_ID_Ref_list",
	"$$Map_Target_ID_Ref_list",
	"$$Map_Relationship",
	"$Map_Confidence_Score",
	"$Map_Coverage",
}

// columnDescriptions is the human-readable second row. Consumers treat it
// as metadata, not data.
var columnDescriptions = []string{
	"A reference to a resource that has the source controls of a mapping.",
	"A reference to a resource that has the target controls of a mapping.",
	"A list of source reference IDs.",
	"A list of target reference IDs.",
	"The relationship type for the mapping entry.",
	"An estimation of the confidence that this mapping is correct and accurate expressed as percentage.",
	"An estimation of the percentage coverage of the targets by the sources.",
}

// WriteCSV writes mapped records followed by source-gap records in
// template order: header row, description row, then data. Target ID lists
// are space-joined.
func WriteCSV(w io.Writer, result *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columnNames); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writer.Write(columnDescriptions); err != nil {
		return fmt.Errorf("writing description row: %w", err)
	}

	for _, record := range result.Mapped {
		if err := writer.Write(recordFields(record)); err != nil {
			return fmt.Errorf("writing mapping %s: %w", record.SourceID, err)
		}
	}
	for _, record := range result.SourceGaps {
		if err := writer.Write(recordFields(record)); err != nil {
			return fmt.Errorf("writing gap %s: %w", record.SourceID, err)
		}
	}
	for _, record := range result.TargetGaps {
		if err := writer.Write(recordFields(record)); err != nil {
			return fmt.Errorf("writing target gap %s: %w", record.SourceID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the crosswalk CSV to path, creating parent directories.
func SaveCSV(result *Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, result); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func recordFields(record MappingRecord) []string {
	return []string{
		record.SourceResource,
		record.TargetResource,
		record.SourceID,
		strings.Join(record.TargetIDs, " "),
		record.Relationship,
		record.Confidence,
		record.Coverage,
	}
}

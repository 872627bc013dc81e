package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"forecastai/analytics"
)

// ParseTabularFile turns an uploaded CSV or XLSX payload into the untyped
// table the analytics pipeline consumes. The first row is the header; all
// cells stay strings, typed coercion happens later in the pipeline.
func ParseTabularFile(filename string, contents []byte) (*analytics.Table, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return parseCSV(contents)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"),
		strings.HasSuffix(strings.ToLower(filename), ".xls"):
		return parseXLSX(contents)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (only CSV/XLSX supported)", filename)
	}
}

func parseCSV(contents []byte) (*analytics.Table, error) {
	reader := csv.NewReader(bytes.NewReader(contents))
	reader.FieldsPerRecord = -1 // POS exports are often ragged
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file has less than 2 rows")
	}
	return &analytics.Table{Headers: rows[0], Rows: rows[1:]}, nil
}

func parseXLSX(contents []byte) (*analytics.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file has less than 2 rows")
	}
	return &analytics.Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// Package tabular reads CSV files into header-keyed rows, the shape the
// loaders work with.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one CSV record keyed by column name.
type Row map[string]string

// Get returns the first non-blank value among the given column names, trimmed.
// Missing columns read as empty, so callers can probe header aliases.
func (r Row) Get(columns ...string) string {
	for _, column := range columns {
		if value := strings.TrimSpace(r[column]); value != "" {
			return value
		}
	}
	return ""
}

// ReadFile reads a whole CSV file into rows keyed by its header line.
func ReadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Read decodes CSV content, using the first record as the header. Short
// records leave their trailing columns empty, long ones drop the extras.
func Read(reader io.Reader) ([]Row, error) {
	decoder := csv.NewReader(reader)
	decoder.FieldsPerRecord = -1
	decoder.TrimLeadingSpace = true

	header, err := decoder.Read()
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	// Excel-style exports prefix the first header cell with a BOM
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := []Row{}
	for {
		record, err := decoder.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		row := Row{}
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"country-pipeline/core/sqlgen"
	"country-pipeline/core/utils"
)

// WriteCSV writes t with a header row. Null values become empty cells.
func WriteCSV(t *sqlgen.Table, path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeCSV(f, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// EncodeCSV writes t to w as CSV.
func EncodeCSV(w io.Writer, t *sqlgen.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j >= len(row) {
				continue
			}
			text, null, err := utils.SQLText(row[j])
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i, t.Columns[j], err)
			}
			if !null {
				record[j] = text
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a CSV export back into a table. Every value is a string and
// an empty cell reads as nil, so it renders as NULL.
func ReadCSV(path string) (*sqlgen.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err == io.EOF {
		return &sqlgen.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t := &sqlgen.Table{Columns: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := make([]any, len(record))
		for i, cell := range record {
			if cell != "" {
				row[i] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

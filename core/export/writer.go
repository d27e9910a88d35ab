package export

import (
	"fmt"
	"path/filepath"
	"time"

	"country-pipeline/core/database"
)

// WriteAll writes rows once per format into dir, naming every file
// FileName(base, at, format). It returns the written paths in format order.
func WriteAll[T any](dir, base string, at time.Time, formats []Format, m *database.Model, rows []T) ([]string, error) {
	table, err := database.TableOf(m, rows)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, FileName(base, at, f))

		switch f {
		case CSV:
			err = WriteCSV(table, path)
		case JSON:
			err = WriteJSON(path, rows)
		case Parquet:
			err = WriteParquet(path, rows)
		case XLSX:
			err = WriteXLSX(table, path)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

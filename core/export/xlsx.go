package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"country-pipeline/core/sqlgen"
	"country-pipeline/core/utils"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported rows.
const SheetName = "countries"

// WriteXLSX writes t to a single-sheet workbook. Numbers stay numeric,
// null values leave the cell empty.
func WriteXLSX(t *sqlgen.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cell, err := cellValue(v)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i, t.Columns[j], err)
			}
			cells[j] = cell
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// cellValue dereferences pointers so excelize sees the underlying scalar.
func cellValue(v any) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return nil, nil
		}
		return rv.Float(), nil
	}

	text, null, err := utils.SQLText(rv.Interface())
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	return text, nil
}

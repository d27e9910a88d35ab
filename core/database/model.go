package database

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"country-pipeline/core/sqlgen"

	"gorm.io/gorm/schema"
)

// ErrNotStruct is returned when a model is not a struct or pointer to struct.
var ErrNotStruct = errors.New("database: model must be a struct")

// Model is the tabular shape of a row struct: its table name, its columns in
// declaration order and its primary key columns.
type Model struct {
	Table       string
	Columns     []string
	PrimaryKeys []string

	indexes [][]int
	typ     reflect.Type
}

var schemaCache sync.Map

// Describe parses model's gorm tags into a Model.
// Column names follow the gorm "column" tag or the default snake_case naming.
func Describe(model any) (*Model, error) {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStruct, model)
	}

	s, err := schema.Parse(model, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", t.Name(), err)
	}

	m := &Model{
		Table:       s.Table,
		Columns:     append([]string(nil), s.DBNames...),
		PrimaryKeys: append([]string(nil), s.PrimaryFieldDBNames...),
		typ:         t,
	}
	for _, name := range m.Columns {
		m.indexes = append(m.indexes, s.FieldsByDBName[name].StructField.Index)
	}

	return m, nil
}

// Values returns the column values of row, in column order.
// Pointer fields are returned as-is so nil stays distinguishable from zero.
func (m *Model) Values(row any) ([]any, error) {
	v := reflect.Indirect(reflect.ValueOf(row))
	if !v.IsValid() || v.Type() != m.typ {
		return nil, fmt.Errorf("%w: want %s, got %T", ErrNotStruct, m.typ, row)
	}

	values := make([]any, len(m.indexes))
	for i, idx := range m.indexes {
		values[i] = v.FieldByIndex(idx).Interface()
	}
	return values, nil
}

// TableOf converts rows into a uniform table in m's column order.
func TableOf[T any](m *Model, rows []T) (*sqlgen.Table, error) {
	t := &sqlgen.Table{
		Columns: append([]string(nil), m.Columns...),
		Rows:    make([][]any, 0, len(rows)),
	}
	for i := range rows {
		values, err := m.Values(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		t.Rows = append(t.Rows, values)
	}
	return t, nil
}

// UpsertConfig returns a generator config targeting m's table with its
// primary key as the conflict set.
func (m *Model) UpsertConfig() sqlgen.Config {
	return sqlgen.Config{
		Table:           m.Table,
		ConflictColumns: append([]string(nil), m.PrimaryKeys...),
	}
}

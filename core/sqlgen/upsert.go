package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"country-pipeline/core/utils"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNoTable is returned when the target table identifier is empty.
	ErrNoTable = errors.New("sqlgen: target table is empty")
	// ErrNoColumns is returned when the table has no columns.
	ErrNoColumns = errors.New("sqlgen: table has no columns")
	// ErrNoConflictColumns is returned when the conflict key set is empty.
	ErrNoConflictColumns = errors.New("sqlgen: conflict column set is empty")
	// ErrUnknownConflictColumn is returned when a conflict column is not a table column.
	ErrUnknownConflictColumn = errors.New("sqlgen: conflict column not in table")
	// ErrEmptyRowSet is returned when there are no rows to emit.
	// Callers treat it as "skip emission".
	ErrEmptyRowSet = errors.New("sqlgen: empty row set")
	// ErrRowWidth is returned when a row does not match the column count.
	ErrRowWidth = errors.New("sqlgen: row width does not match columns")
	// ErrUnrenderableValue is returned when a value cannot be cast to text.
	ErrUnrenderableValue = errors.New("sqlgen: value cannot be rendered")
)

// QuoteIdent double-quotes an identifier verbatim, doubling embedded quotes.
func QuoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// QuoteLiteral single-quotes s, doubling embedded single quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Literal renders one value: bare NULL for null-like values, a quoted
// string literal for everything else.
func Literal(v any) (string, error) {
	text, null, err := utils.SQLText(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrenderableValue, err)
	}
	if null {
		return "NULL", nil
	}
	return QuoteLiteral(text), nil
}

// Generate renders t as INSERT ... ON CONFLICT upsert text.
// With BatchSize > 0 the rows are split into several statements separated by
// a blank line. Nothing is returned unless every value renders.
func Generate(t *Table, cfg Config) (string, error) {
	if err := validate(t, cfg); err != nil {
		return "", err
	}

	tuples := make([]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		tuple, err := renderTuple(row)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}
		tuples = append(tuples, tuple)
	}

	head := insertHead(cfg.Table, t.Columns)
	tail := conflictClause(t.Columns, cfg.ConflictColumns)

	size := cfg.BatchSize
	if size <= 0 || size > len(tuples) {
		size = len(tuples)
	}

	statements := make([]string, 0, (len(tuples)+size-1)/size)
	for start := 0; start < len(tuples); start += size {
		end := min(start+size, len(tuples))
		statements = append(statements, head+"VALUES\n  "+strings.Join(tuples[start:end], ",\n  ")+"\n"+tail)
	}

	return strings.Join(statements, "\n\n"), nil
}

func validate(t *Table, cfg Config) error {
	if cfg.Table == "" {
		return ErrNoTable
	}
	if t == nil || len(t.Columns) == 0 {
		return ErrNoColumns
	}
	if len(cfg.ConflictColumns) == 0 {
		return ErrNoConflictColumns
	}
	for _, c := range cfg.ConflictColumns {
		if t.Index(c) < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownConflictColumn, c)
		}
	}
	if len(t.Rows) == 0 {
		return ErrEmptyRowSet
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(row), len(t.Columns))
		}
	}
	return nil
}

func insertHead(table string, columns []string) string {
	return "INSERT INTO " + QuoteIdent(table) + " (" + joinIdents(columns) + ")\n"
}

func renderTuple(row []any) (string, error) {
	vals := make([]string, len(row))
	for j, v := range row {
		lit, err := Literal(v)
		if err != nil {
			return "", err
		}
		vals[j] = lit
	}
	return "(" + strings.Join(vals, ", ") + ")", nil
}

// conflictClause lists every non-conflict column in table order. When no
// column is left to update the clause degrades to DO NOTHING.
func conflictClause(columns, conflict []string) string {
	keys := make(map[string]struct{}, len(conflict))
	for _, c := range conflict {
		keys[c] = struct{}{}
	}

	var set []string
	for _, c := range columns {
		if _, ok := keys[c]; ok {
			continue
		}
		q := QuoteIdent(c)
		set = append(set, q+" = EXCLUDED."+q)
	}

	target := "ON CONFLICT (" + joinIdents(conflict) + ")"
	if len(set) == 0 {
		return target + " DO NOTHING;"
	}
	return target + " DO UPDATE\nSET " + strings.Join(set, ", ") + ";"
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

package database

import (
	"strings"

	"country-pipeline/core/sqlgen"
)

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for m.
// Every column is TEXT, matching the all-text literals the upsert emits, and
// the primary key columns form the conflict target.
func CreateTableSQL(m *Model) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(sqlgen.QuoteIdent(m.Table))
	b.WriteString(" (\n")
	for _, c := range m.Columns {
		b.WriteString("  ")
		b.WriteString(sqlgen.QuoteIdent(c))
		b.WriteString(" TEXT,\n")
	}

	keys := make([]string, len(m.PrimaryKeys))
	for i, k := range m.PrimaryKeys {
		keys[i] = sqlgen.QuoteIdent(k)
	}
	b.WriteString("  PRIMARY KEY (")
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString(")\n);")

	return b.String()
}

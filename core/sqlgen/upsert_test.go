package sqlgen_test

import (
	"database/sql"
	"math"
	"strings"
	"testing"

	"country-pipeline/core/sqlgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func strPtr(s string) *string { return &s }

func TestGenerate_Format(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common", "population"},
		Rows: [][]any{
			{"USA", "United States", int64(331002651)},
			{"FRA", "France", nil},
		},
	}

	got, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)

	want := `INSERT INTO "countries" ("cca3", "name_common", "population")
VALUES
  ('USA', 'United States', '331002651'),
  ('FRA', 'France', NULL)
ON CONFLICT ("cca3") DO UPDATE
SET "name_common" = EXCLUDED."name_common", "population" = EXCLUDED."population";`
	assert.Equal(t, want, got)
}

func TestGenerate_Escaping(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common"},
		Rows:    [][]any{{"IRL", "O'Brien"}},
	}

	got, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "'O''Brien'")
	assert.NotContains(t, got, "'O'Brien'")
}

func TestGenerate_NullRendering(t *testing.T) {
	var missing *string
	table := &sqlgen.Table{
		Columns: []string{"cca3", "a", "b", "c", "d"},
		Rows:    [][]any{{"X", nil, missing, math.NaN(), strPtr("")}},
	}

	got, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "('X', NULL, NULL, NULL, '')")
	assert.NotContains(t, got, "'NULL'")
}

func TestGenerate_NumbersAndBooleansAreQuoted(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "area", "independent"},
		Rows:    [][]any{{"FRA", 551695.0, true}},
	}

	got, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "('FRA', '551695', 'true')")
}

func TestGenerate_ConflictClause(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common", "population", "region", "area"},
		Rows:    [][]any{{"USA", "United States", 1, "Americas", 2.5}},
	}

	t.Run("CompositeKey", func(t *testing.T) {
		cfg := sqlgen.Config{Table: "countries", ConflictColumns: []string{"cca3", "name_common", "population"}}
		got, err := sqlgen.Generate(table, cfg)
		require.NoError(t, err)

		assert.Contains(t, got, `ON CONFLICT ("cca3", "name_common", "population") DO UPDATE`)
		assert.True(t, strings.HasSuffix(got, `SET "region" = EXCLUDED."region", "area" = EXCLUDED."area";`))
		assert.NotContains(t, got, `"cca3" = EXCLUDED`)
		assert.NotContains(t, got, `"name_common" = EXCLUDED`)
		assert.NotContains(t, got, `"population" = EXCLUDED`)
	})

	t.Run("EveryColumnIsKey", func(t *testing.T) {
		narrow := &sqlgen.Table{Columns: []string{"cca3"}, Rows: [][]any{{"USA"}}}
		got, err := sqlgen.Generate(narrow, sqlgen.DefaultConfig())
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, `ON CONFLICT ("cca3") DO NOTHING;`))
		assert.NotContains(t, got, "SET")
	})
}

func TestGenerate_IdentifiersVerbatim(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"CCA3", `we"ird`},
		Rows:    [][]any{{"USA", "x"}},
	}
	cfg := sqlgen.Config{Table: "Countries", ConflictColumns: []string{"CCA3"}}

	got, err := sqlgen.Generate(table, cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, `INSERT INTO "Countries" ("CCA3", "we""ird")`))
}

func TestGenerate_Errors(t *testing.T) {
	valid := &sqlgen.Table{Columns: []string{"cca3"}, Rows: [][]any{{"USA"}}}

	tests := []struct {
		name  string
		table *sqlgen.Table
		cfg   sqlgen.Config
		want  error
	}{
		{"NoTable", valid, sqlgen.Config{ConflictColumns: []string{"cca3"}}, sqlgen.ErrNoTable},
		{"NoColumns", &sqlgen.Table{}, sqlgen.DefaultConfig(), sqlgen.ErrNoColumns},
		{"NilTable", nil, sqlgen.DefaultConfig(), sqlgen.ErrNoColumns},
		{"NoConflict", valid, sqlgen.Config{Table: "countries"}, sqlgen.ErrNoConflictColumns},
		{"UnknownConflict", valid, sqlgen.Config{Table: "countries", ConflictColumns: []string{"id"}}, sqlgen.ErrUnknownConflictColumn},
		{"EmptyRowSet", &sqlgen.Table{Columns: []string{"cca3"}}, sqlgen.DefaultConfig(), sqlgen.ErrEmptyRowSet},
		{"RaggedRow", &sqlgen.Table{Columns: []string{"cca3", "x"}, Rows: [][]any{{"USA"}}}, sqlgen.DefaultConfig(), sqlgen.ErrRowWidth},
		{"Unrenderable", &sqlgen.Table{Columns: []string{"cca3", "x"}, Rows: [][]any{{"USA", "ok"}, {"FRA", make(chan int)}}}, sqlgen.DefaultConfig(), sqlgen.ErrUnrenderableValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlgen.Generate(tt.table, tt.cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, got)
		})
	}
}

func TestGenerate_Batches(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common"},
		Rows:    [][]any{{"A", "a"}, {"B", "b"}, {"C", "c"}},
	}
	cfg := sqlgen.DefaultConfig()
	cfg.BatchSize = 2

	got, err := sqlgen.Generate(table, cfg)
	require.NoError(t, err)

	statements := strings.Split(got, "\n\n")
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "('A', 'a'),\n  ('B', 'b')\n")
	assert.Contains(t, statements[1], "VALUES\n  ('C', 'c')\n")
	for _, s := range statements {
		assert.True(t, strings.HasPrefix(s, `INSERT INTO "countries"`))
		assert.True(t, strings.HasSuffix(s, ";"))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common", "area"},
		Rows:    [][]any{{"USA", "United States", 9833520.0}, {"FRA", "France", nil}},
	}

	first, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	second, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_ExecutesAsUpsert(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE "countries" ("cca3" TEXT PRIMARY KEY, "name_common" TEXT, "capital" TEXT)`)
	require.NoError(t, err)

	table := &sqlgen.Table{
		Columns: []string{"cca3", "name_common", "capital"},
		Rows:    [][]any{{"IRL", "Ireland", "O'Brien Town"}, {"FRA", "France", nil}},
	}
	stmt, err := sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)

	// Running the same text twice must not fail or duplicate rows.
	_, err = db.Exec(stmt)
	require.NoError(t, err)
	_, err = db.Exec(stmt)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM countries`).Scan(&count))
	assert.Equal(t, 2, count)

	var capital string
	require.NoError(t, db.QueryRow(`SELECT capital FROM countries WHERE cca3 = 'IRL'`).Scan(&capital))
	assert.Equal(t, "O'Brien Town", capital)

	var frCapital sql.NullString
	require.NoError(t, db.QueryRow(`SELECT capital FROM countries WHERE cca3 = 'FRA'`).Scan(&frCapital))
	assert.False(t, frCapital.Valid)

	table.Rows[1][2] = "Paris"
	stmt, err = sqlgen.Generate(table, sqlgen.DefaultConfig())
	require.NoError(t, err)
	_, err = db.Exec(stmt)
	require.NoError(t, err)

	require.NoError(t, db.QueryRow(`SELECT capital FROM countries WHERE cca3 = 'FRA'`).Scan(&frCapital))
	assert.Equal(t, "Paris", frCapital.String)
}

// Package database describes row models as tables without opening a
// connection.
//
// It uses the GORM schema parser so that the same struct tags drive the
// column names, the column order and the primary key everywhere a row set
// leaves the process: SQL upserts, CSV, XLSX and Parquet exports.
//
// # Usage
//
//	model, err := database.Describe(&models.CountryRow{})
//	table, err := database.TableOf(model, rows)
//	stmt, err := sqlgen.Generate(table, model.UpsertConfig())
//
// CreateTableSQL renders a matching all-TEXT table definition, used to check
// generated upserts against an embedded SQLite database.
package database

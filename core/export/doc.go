// Package export writes row sets to timestamped tabular files.
//
// Supported formats are CSV, JSON, Parquet and XLSX. File names follow
// "<base>_<YYYYMMDDTHHMMSSZ>.<ext>" in UTC so that a lexical sort is also a
// chronological one; Latest relies on that to find the newest export.
//
// CSV is the round-trip format: ReadCSV returns every value as a string and
// an empty cell as nil, which is how the SQL generator consumes an export.
package export

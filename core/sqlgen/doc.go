// Package sqlgen renders a row/column table into idempotent PostgreSQL
// upsert text.
//
// # Format
//
//	INSERT INTO "countries" ("cca3", "name_common")
//	VALUES
//	  ('USA', 'United States'),
//	  ('FRA', 'France')
//	ON CONFLICT ("cca3") DO UPDATE
//	SET "name_common" = EXCLUDED."name_common";
//
// Identifiers are double-quoted verbatim. Every value is cast to text and
// written as a single-quoted literal, numbers and booleans included; nil,
// nil pointers and NaN become a bare NULL.
//
// The generator never executes anything. It refuses an empty row set with
// ErrEmptyRowSet and fails the whole generation when a single value cannot
// be rendered, so partial SQL is never produced.
package sqlgen

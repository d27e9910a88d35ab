// Package countries implements the country reference pipeline.
//
// # Flow
//
//	raw snapshots -> Normalize / ParseWebRows (parallel) -> Reconciler -> rows
//	rows -> exports (csv, json, parquet, xlsx) and upsert SQL -> object storage
//
// The Normalizer flattens API records into CountryRecord values. The web
// parser maps scraped rows to WebCapitalRow values. The Reconciler left-joins
// them: name_common against the scraped country name first, then, when that
// yields no capital, the joined capital against the scraped capital. The
// first matching row wins; a miss leaves capital_from_web null.
//
// Pipeline chains crawl, ETL, SQL and upload stages for a scheduled run.
// The HTTP feature serves the joined rows and the upsert text from a TTL
// cache keyed by the snapshot files.
package countries

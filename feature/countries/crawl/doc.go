// Package crawl fetches the two raw sources and persists them as snapshots.
//
// APISource downloads the REST countries feed with a field selector.
// WebSource scrapes the first wikitable of the capitals page. Both retry
// transient failures (network errors, 429, 5xx) with exponential backoff.
//
// Snapshots are plain JSON arrays on disk. DecodeAPISnapshot and
// DecodeWebSnapshot turn them back into raw records, skipping elements that
// do not fit the raw shape and reporting them in a ParseReport. Only an input
// that is not a JSON array at all is fatal.
package crawl

// Package config loads the pipeline configuration.
//
// Values come from struct tag defaults, a .env file and the environment, in
// that order of precedence (lowest first). Nested keys map to upper-case
// environment names with dots replaced by underscores.
//
// # Configuration Structure
//
//   - Server: HTTP server address and API key
//   - Storage: S3/MinIO credentials, bucket and object prefix
//   - Log: logging level and format
//   - SQL: upsert target table, conflict columns and batch size
//   - Crawl: API and wiki URLs, user agent, timeouts and retries
//   - Countries: snapshot, export and SQL paths, export formats
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.SQL.Table)
package config

package countries

import (
	"path/filepath"
	"time"
)

// Config holds the paths and output options of the countries feature.
// Every path is resolved relative to the working directory.
type Config struct {
	// RawDir is the root of the raw snapshots.
	RawDir string `mapstructure:"raw_dir" default:"raw"`
	// APISnapshot is the API snapshot path under RawDir.
	APISnapshot string `mapstructure:"api_snapshot" default:"api/countries_raw.json"`
	// WebSnapshot is the web snapshot path under RawDir.
	WebSnapshot string `mapstructure:"web_snapshot" default:"web/capitals_raw.json"`
	// OutputDir receives the timestamped exports.
	OutputDir string `mapstructure:"output_dir" default:"outputs"`
	// SQLDir receives the generated upsert file.
	SQLDir string `mapstructure:"sql_dir" default:"sql"`
	// SQLFile is the upsert file name.
	SQLFile string `mapstructure:"sql_file" default:"countries_upsert.sql"`
	// Formats lists the export formats: csv, json, parquet, xlsx.
	Formats []string `mapstructure:"formats" default:"csv,parquet,xlsx"`
	// CacheTTLSeconds is how long the HTTP layer reuses a join result.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}

// APISnapshotPath returns the full API snapshot path.
func (c Config) APISnapshotPath() string {
	return filepath.Join(c.RawDir, c.APISnapshot)
}

// WebSnapshotPath returns the full web snapshot path.
func (c Config) WebSnapshotPath() string {
	return filepath.Join(c.RawDir, c.WebSnapshot)
}

// SQLPath returns the full upsert file path.
func (c Config) SQLPath() string {
	return filepath.Join(c.SQLDir, c.SQLFile)
}

// CacheTTL returns the cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

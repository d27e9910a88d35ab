package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"country-pipeline/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "countries", cfg.Storage.Bucket)
	assert.Equal(t, "raw/outputs", cfg.Storage.Prefix)
	assert.Equal(t, "countries", cfg.SQL.Table)
	assert.Equal(t, []string{"cca3"}, cfg.SQL.ConflictColumns)
	assert.Zero(t, cfg.SQL.BatchSize)
	assert.Equal(t, []string{"csv", "parquet", "xlsx"}, cfg.Countries.Formats)
	assert.Equal(t, filepath.Join("raw", "api", "countries_raw.json"), cfg.Countries.APISnapshotPath())
	assert.Equal(t, 3, cfg.Crawl.RetryAttempts)
	assert.Contains(t, cfg.Crawl.Fields, "languages")

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SQL_TABLE", "country_ref")
	t.Setenv("SQL_BATCH_SIZE", "100")
	t.Setenv("COUNTRIES_FORMATS", "json,csv")
	t.Setenv("STORAGE_PREFIX", "daily")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "country_ref", cfg.SQL.Table)
	assert.Equal(t, 100, cfg.SQL.BatchSize)
	assert.Equal(t, []string{"json", "csv"}, cfg.Countries.Formats)
	assert.Equal(t, "daily", cfg.Storage.Prefix)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registered so the values loaded from .env are restored afterwards.
	t.Setenv("SQL_CONFLICT_COLUMNS", "")
	t.Setenv("LOG_LEVEL", "")

	dir := t.TempDir()
	env := "SQL_CONFLICT_COLUMNS=cca3, name_common\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	cfg.Normalize()

	assert.Equal(t, []string{"cca3", "name_common"}, cfg.SQL.ConflictColumns)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"EmptyTable", func(c *config.Config) { c.SQL.Table = " " }},
		{"NoConflictColumns", func(c *config.Config) { c.SQL.ConflictColumns = []string{""} }},
		{"NegativeBatch", func(c *config.Config) { c.SQL.BatchSize = -1 }},
		{"UnknownFormat", func(c *config.Config) { c.Countries.Formats = []string{"csv", "yaml"} }},
		{"BadAPIURL", func(c *config.Config) { c.Crawl.APIURL = "http://[::1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

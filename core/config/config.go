package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"country-pipeline/core/export"
	"country-pipeline/core/logger"
	"country-pipeline/core/server"
	"country-pipeline/core/sqlgen"
	"country-pipeline/core/storage"
	"country-pipeline/feature/countries"
	"country-pipeline/feature/countries/crawl"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// SQL holds configuration for the upsert generator.
	SQL sqlgen.Config `mapstructure:"sql"`
	// Crawl holds configuration for the two upstream crawlers.
	Crawl crawl.Config `mapstructure:"crawl"`
	// Countries holds paths and output options of the pipeline.
	Countries countries.Config `mapstructure:"countries"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SQL_TABLE -> sql.table)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SQL.Table) == "" {
		return fmt.Errorf("%w: sql.table is empty", ErrInvalid)
	}
	if len(trimmed(c.SQL.ConflictColumns)) == 0 {
		return fmt.Errorf("%w: sql.conflict_columns is empty", ErrInvalid)
	}
	if c.SQL.BatchSize < 0 {
		return fmt.Errorf("%w: sql.batch_size must not be negative", ErrInvalid)
	}
	if _, err := export.ParseFormats(c.Countries.Formats); err != nil {
		return fmt.Errorf("%w: countries.formats: %v", ErrInvalid, err)
	}
	if _, err := c.Crawl.RequestURL(); err != nil {
		return fmt.Errorf("%w: crawl.api_url: %v", ErrInvalid, err)
	}
	return nil
}

// Normalize trims list entries that came from comma-separated values.
func (c *Config) Normalize() {
	c.SQL.ConflictColumns = trimmed(c.SQL.ConflictColumns)
	c.Crawl.Fields = trimmed(c.Crawl.Fields)
	c.Countries.Formats = trimmed(c.Countries.Formats)
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

package sqlgen

// Config holds configuration for upsert generation.
type Config struct {
	// Table is the target table identifier, quoted verbatim.
	Table string `mapstructure:"table" default:"countries"`
	// ConflictColumns is the conflict target of the ON CONFLICT clause.
	ConflictColumns []string `mapstructure:"conflict_columns" default:"cca3"`
	// BatchSize caps the tuples per statement. Zero emits a single statement.
	BatchSize int `mapstructure:"batch_size" default:"0"`
}

// DefaultConfig returns the configuration used for the countries table.
func DefaultConfig() Config {
	return Config{
		Table:           "countries",
		ConflictColumns: []string{"cca3"},
	}
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"country-pipeline/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sql command
	sqlInput  string
	sqlOutput string
	sqlDDL    string
)

// sqlCmd renders the upsert from a CSV export.
var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Generate the upsert SQL from the latest CSV export",
	Long: `Reads a CSV export and writes an INSERT ... ON CONFLICT DO UPDATE
statement for it. An export without rows writes nothing.

Examples:
  # Newest export in the output directory
  countries sql

  # Explicit input and output, plus the table definition
  countries sql --input outputs/countries_20240101T000000Z.csv --output upsert.sql --ddl schema.sql`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		svc, err := newService(cfg, l, false)
		if err != nil {
			return err
		}

		input := sqlInput
		if input == "" {
			if input, err = svc.LatestCSV(); err != nil {
				return fmt.Errorf("no CSV export to read: %w", err)
			}
		}
		output := sqlOutput
		if output == "" {
			output = cfg.Countries.SQLPath()
		}

		if _, err := svc.EmitSQLFromCSV(input, output); err != nil {
			return err
		}

		if sqlDDL != "" {
			if err := os.MkdirAll(filepath.Dir(sqlDDL), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(sqlDDL, []byte(database.CreateTableSQL(svc.Model())+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", sqlDDL, err)
			}
			l.Info("Wrote table definition", zap.String("path", sqlDDL))
		}
		return nil
	},
}

func init() {
	sqlCmd.Flags().StringVar(&sqlInput, "input", "", "CSV export to read (default: newest export)")
	sqlCmd.Flags().StringVar(&sqlOutput, "output", "", "Upsert file to write (default: configured SQL path)")
	sqlCmd.Flags().StringVar(&sqlDDL, "ddl", "", "Also write a CREATE TABLE statement to this path")
	RootCmd.AddCommand(sqlCmd)
}

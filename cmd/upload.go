package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the upload command
	uploadPrefix string
)

// uploadCmd publishes artifacts to object storage.
var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload exports and the upsert SQL to object storage",
	Long: `Uploads the given files, or by default every file in the output
directory plus the upsert SQL, to the configured bucket under the prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		svc, err := newService(cfg, l, true)
		if err != nil {
			return err
		}

		files := args
		if len(files) == 0 {
			if files, err = defaultArtifacts(cfg.Countries.OutputDir, cfg.Countries.SQLPath()); err != nil {
				return err
			}
		}
		if len(files) == 0 {
			l.Warn("Nothing to upload", zap.String("dir", cfg.Countries.OutputDir))
			return nil
		}

		keys, err := svc.Publish(cmd.Context(), files, uploadPrefix)
		if err != nil {
			return err
		}
		l.Info("Upload finished", zap.String("bucket", cfg.Storage.Bucket), zap.Int("objects", len(keys)))
		return nil
	},
}

// defaultArtifacts lists the regular files of dir and the SQL file when it exists.
func defaultArtifacts(dir, sqlPath string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if _, err := os.Stat(sqlPath); err == nil {
		files = append(files, sqlPath)
	}
	return files, nil
}

func init() {
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Object key prefix (default: configured storage prefix)")
	RootCmd.AddCommand(uploadCmd)
}

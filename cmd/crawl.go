package cmd

import (
	"fmt"

	"country-pipeline/feature/countries/crawl"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// crawlCmd is the parent command for both crawlers.
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Download raw snapshots from upstream sources",
}

var crawlAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Download the REST countries feed",
	Long: `Downloads every country from the REST countries API and stores the
unparsed records under the raw snapshot directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		records, err := crawl.NewAPISource(cfg.Crawl, nil, l).Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to crawl API: %w", err)
		}

		path := cfg.Countries.APISnapshotPath()
		if err := crawl.SaveSnapshot(path, records); err != nil {
			return err
		}
		l.Info("Saved API snapshot", zap.String("path", path), zap.Int("records", len(records)))
		return nil
	},
}

var crawlWebCmd = &cobra.Command{
	Use:   "web",
	Short: "Scrape the capitals table",
	Long: `Scrapes the first wikitable of the capitals page and stores the rows,
header excluded, under the raw snapshot directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		rows, err := crawl.NewWebSource(cfg.Crawl, nil, l).Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to crawl web table: %w", err)
		}

		path := cfg.Countries.WebSnapshotPath()
		if err := crawl.SaveSnapshot(path, rows); err != nil {
			return err
		}
		l.Info("Saved web snapshot", zap.String("path", path), zap.Int("rows", len(rows)))
		return nil
	},
}

func init() {
	crawlCmd.AddCommand(crawlAPICmd, crawlWebCmd)
	RootCmd.AddCommand(crawlCmd)
}

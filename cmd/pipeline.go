package cmd

import (
	"country-pipeline/feature/countries"
	"country-pipeline/feature/countries/crawl"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the pipeline command
	skipUpload bool
)

// pipelineCmd runs every stage in order.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run crawl, ETL, SQL and upload in order",
	Long: `Runs the whole pipeline: crawl api, crawl web, etl, sql and upload.
The run stops at the first failing stage. Uploaded objects are grouped under
a per-run prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		svc, err := newService(cfg, l, !skipUpload)
		if err != nil {
			return err
		}

		p := countries.NewPipeline(
			crawl.NewAPISource(cfg.Crawl, nil, l),
			crawl.NewWebSource(cfg.Crawl, nil, l),
			svc,
			l,
			skipUpload,
		)

		report, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}
		printSummary(l, report.Summary)
		l.Info("Run report",
			zap.String("run_id", report.RunID),
			zap.Strings("exports", report.Exports),
			zap.String("sql", report.SQLPath),
			zap.Strings("uploaded", report.Uploaded),
		)
		return nil
	},
}

func init() {
	pipelineCmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "Skip the upload stage")
	RootCmd.AddCommand(pipelineCmd)
}

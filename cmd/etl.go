package cmd

import (
	"time"

	"country-pipeline/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// etlCmd normalizes, reconciles and exports the persisted snapshots.
var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Reconcile the raw snapshots and write exports",
	Long: `Normalizes the API snapshot, parses the web snapshot, joins the web
capital onto every country and writes one timestamped export per configured
format.`,
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

		ctx := cmd.Context()
		result, err := svc.LoadAndReconcile(ctx, cfg.Countries.APISnapshotPath(), cfg.Countries.WebSnapshotPath())
		if err != nil {
			return err
		}
		printSummary(l, result.Summary)

		paths, err := svc.Export(ctx, result, time.Now())
		if err != nil {
			return err
		}
		l.Info("ETL finished", zap.Int("records", len(result.Records)), zap.Strings("exports", paths))
		return nil
	},
}

// printSummary logs the join statistics.
func printSummary(l *zap.Logger, s reconcile.Summary) {
	l.Info("Reconciliation report",
		zap.Int("total", s.Total),
		zap.Int("primary", s.Primary),
		zap.Int("fallback", s.Fallback),
		zap.Int("unmatched", s.Unmatched),
		zap.Int("primary_without_value", s.PrimaryWithoutValue),
	)

	maxShow := min(5, len(s.Ambiguities))
	for _, a := range s.Ambiguities[:maxShow] {
		l.Info("Sample ambiguity",
			zap.String("key", a.Key),
			zap.String("strategy", string(a.Strategy)),
			zap.Int("candidates", a.Candidates),
		)
	}
	if len(s.Ambiguities) > maxShow {
		l.Info("Additional ambiguities not shown", zap.Int("count", len(s.Ambiguities)-maxShow))
	}
}

func init() {
	RootCmd.AddCommand(etlCmd)
}

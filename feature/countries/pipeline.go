package countries

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"country-pipeline/core/export"
	"country-pipeline/core/logger"
	"country-pipeline/core/reconcile"
	"country-pipeline/core/sqlgen"
	"country-pipeline/feature/countries/crawl"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage names, in run order.
const (
	StageCrawlAPI = "crawl_api"
	StageCrawlWeb = "crawl_web"
	StageETL      = "etl"
	StageSQL      = "sql"
	StageUpload   = "upload"
)

// RunReport describes one pipeline run.
type RunReport struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	APIRecords int               `json:"api_records"`
	WebRows    int               `json:"web_rows"`
	Summary    reconcile.Summary `json:"summary"`
	Exports    []string          `json:"exports"`
	SQLPath    string            `json:"sql_path,omitempty"`
	Uploaded   []string          `json:"uploaded,omitempty"`
	Stages     []StageReport     `json:"stages"`
}

// StageReport is the wall time of one finished stage.
type StageReport struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Pipeline runs crawl api, crawl web, etl, sql and upload in order.
type Pipeline struct {
	api        *crawl.APISource
	web        *crawl.WebSource
	service    *Service
	logger     *zap.Logger
	skipUpload bool
	now        func() time.Time
	newID      func() string
}

// NewPipeline wires the stages. With skipUpload the upload stage is
// logged and skipped.
func NewPipeline(api *crawl.APISource, web *crawl.WebSource, service *Service, logger *zap.Logger, skipUpload bool) *Pipeline {
	return &Pipeline{
		api:        api,
		web:        web,
		service:    service,
		logger:     logger,
		skipUpload: skipUpload,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Run executes every stage and stops at the first failure.
// Published objects go under "<prefix>/<run id>".
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: p.newID(), StartedAt: p.now().UTC()}
	l := logger.WithRunID(p.logger, report.RunID)
	cfg := p.service.Config()

	l.Info("Pipeline started")

	var result *Result

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{StageCrawlAPI, func(ctx context.Context) error {
			records, err := p.api.Fetch(ctx)
			if err != nil {
				return err
			}
			report.APIRecords = len(records)
			return crawl.SaveSnapshot(cfg.APISnapshotPath(), records)
		}},
		{StageCrawlWeb, func(ctx context.Context) error {
			rows, err := p.web.Fetch(ctx)
			if err != nil {
				return err
			}
			report.WebRows = len(rows)
			return crawl.SaveSnapshot(cfg.WebSnapshotPath(), rows)
		}},
		{StageETL, func(ctx context.Context) error {
			var err error
			result, err = p.service.LoadAndReconcile(ctx, cfg.APISnapshotPath(), cfg.WebSnapshotPath())
			if err != nil {
				return err
			}
			report.Summary = result.Summary
			report.Exports, err = p.service.Export(ctx, result, report.StartedAt)
			return err
		}},
		{StageSQL, func(ctx context.Context) error {
			table, err := p.sqlSource(result, report.Exports)
			if err != nil {
				return err
			}
			written, err := p.service.EmitSQL(table, cfg.SQLPath())
			if err != nil {
				return err
			}
			if written {
				report.SQLPath = cfg.SQLPath()
			}
			return nil
		}},
		{StageUpload, func(ctx context.Context) error {
			if p.skipUpload {
				l.Info("Upload skipped")
				return nil
			}
			files := append([]string(nil), report.Exports...)
			if report.SQLPath != "" {
				files = append(files, report.SQLPath)
			}
			prefix := path.Join(p.service.storageCfg.Prefix, report.RunID)
			keys, err := p.service.Publish(ctx, files, prefix)
			report.Uploaded = keys
			return err
		}},
	}

	for _, st := range stages {
		start := p.now()
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := st.run(ctx); err != nil {
			l.Error("Stage failed", zap.String("stage", st.name), zap.Error(err))
			return report, fmt.Errorf("stage %s: %w", st.name, err)
		}
		took := p.now().Sub(start)
		report.Stages = append(report.Stages, StageReport{Name: st.name, Duration: took})
		l.Info("Stage finished", zap.String("stage", st.name), zap.Duration("duration", took))
	}

	l.Info("Pipeline finished",
		zap.Int("records", report.Summary.Total),
		zap.Int("exports", len(report.Exports)),
		zap.Int("uploaded", len(report.Uploaded)),
	)
	return report, nil
}

// sqlSource reads the CSV export back when one was written, so the SQL
// matches what a later `sql` run would produce; otherwise it uses the rows.
func (p *Pipeline) sqlSource(result *Result, exports []string) (*sqlgen.Table, error) {
	for _, e := range exports {
		if strings.HasSuffix(e, ".csv") {
			return export.ReadCSV(e)
		}
	}
	return p.service.Table(result.Rows())
}

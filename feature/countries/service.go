package countries

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"country-pipeline/core/database"
	"country-pipeline/core/export"
	"country-pipeline/core/reconcile"
	"country-pipeline/core/sqlgen"
	"country-pipeline/core/storage"
	"country-pipeline/feature/countries/crawl"
	"country-pipeline/feature/countries/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExportBase is the file name stem of every export.
const ExportBase = "countries"

// ErrNoStorage is returned by Publish when no storage client is configured.
var ErrNoStorage = errors.New("countries: storage client not configured")

// Result is one reconciled record set with its diagnostics.
type Result struct {
	Records    []models.ReconciledRecord `json:"-"`
	Summary    reconcile.Summary         `json:"summary"`
	APIReport  *crawl.ParseReport        `json:"api_report,omitempty"`
	WebReport  *crawl.ParseReport        `json:"web_report,omitempty"`
	Duplicates []string                  `json:"duplicates,omitempty"`
}

// Rows returns the flat rows of the result.
func (r *Result) Rows() []models.CountryRow {
	return models.Rows(r.Records)
}

// Service runs the ETL steps of the countries feature.
type Service struct {
	cfg        Config
	sqlCfg     sqlgen.Config
	storageCfg storage.Config
	client     storage.Client
	model      *database.Model
	reconciler *Reconciler
	cache      *reconcile.Cache[*Result]
	logger     *zap.Logger
}

// NewService creates the service. client may be nil when nothing is
// published. An empty table or conflict set in sqlCfg falls back to the
// CountryRow model.
func NewService(cfg Config, sqlCfg sqlgen.Config, storageCfg storage.Config, client storage.Client, logger *zap.Logger) (*Service, error) {
	model, err := database.Describe(&models.CountryRow{})
	if err != nil {
		return nil, err
	}

	if sqlCfg.Table == "" {
		sqlCfg.Table = model.Table
	}
	if len(sqlCfg.ConflictColumns) == 0 {
		sqlCfg.ConflictColumns = model.PrimaryKeys
	}

	return &Service{
		cfg:        cfg,
		sqlCfg:     sqlCfg,
		storageCfg: storageCfg,
		client:     client,
		model:      model,
		reconciler: NewReconciler(logger),
		cache:      reconcile.NewCache[*Result](cfg.CacheTTL()),
		logger:     logger,
	}, nil
}

// Config returns the feature configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Model returns the tabular model of CountryRow.
func (s *Service) Model() *database.Model {
	return s.model
}

// Reconcile normalizes the API records and parses the web rows in
// parallel, then joins them.
func (s *Service) Reconcile(ctx context.Context, apiRaw []models.RawCountry, webRaw []models.RawWebRow) (*Result, error) {
	var (
		records []models.CountryRecord
		webRows []models.WebCapitalRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		records = Normalize(apiRaw)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		webRows = ParseWebRows(webRaw)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reconciled, summary := s.reconciler.Reconcile(records, webRows)

	dups := DuplicateKeys(records)
	if len(dups) > 0 {
		s.logger.Warn("Duplicate cca3 values kept as-is", zap.Strings("cca3", dups))
	}

	return &Result{
		Records:    reconciled,
		Summary:    summary,
		Duplicates: dups,
	}, nil
}

// LoadAndReconcile reads both snapshots and reconciles them. Skipped
// malformed records are logged and reported on the result.
func (s *Service) LoadAndReconcile(ctx context.Context, apiPath, webPath string) (*Result, error) {
	apiRaw, apiReport, err := crawl.LoadAPISnapshot(apiPath)
	if err != nil {
		return nil, err
	}
	webRaw, webReport, err := crawl.LoadWebSnapshot(webPath)
	if err != nil {
		return nil, err
	}

	for _, r := range []*crawl.ParseReport{apiReport, webReport} {
		if r.Skipped > 0 {
			s.logger.Warn("Skipped malformed records",
				zap.String("source", r.Source),
				zap.Int("skipped", r.Skipped),
				zap.Errors("errors", recordErrors(r.Errors)),
			)
		}
		if r.Coerced > 0 {
			s.logger.Warn("Null-filled malformed fields",
				zap.String("source", r.Source),
				zap.Int("coerced", r.Coerced),
				zap.Errors("errors", recordErrors(r.Warnings)),
			)
		}
	}

	result, err := s.Reconcile(ctx, apiRaw, webRaw)
	if err != nil {
		return nil, err
	}
	result.APIReport = apiReport
	result.WebReport = webReport
	return result, nil
}

// Cached returns the join of the configured snapshots, rebuilt when the
// TTL expires or a snapshot file changes.
func (s *Service) Cached(ctx context.Context) (*Result, error) {
	apiPath, webPath := s.cfg.APISnapshotPath(), s.cfg.WebSnapshotPath()
	key := snapshotKey(apiPath) + "|" + snapshotKey(webPath)

	return s.cache.GetOrBuild(ctx, key, func(ctx context.Context) (*Result, error) {
		return s.LoadAndReconcile(ctx, apiPath, webPath)
	})
}

// Table converts rows into the uniform table used by every writer.
func (s *Service) Table(rows []models.CountryRow) (*sqlgen.Table, error) {
	return database.TableOf(s.model, rows)
}

// GenerateSQL renders the upsert for a result.
func (s *Service) GenerateSQL(result *Result) (string, error) {
	t, err := s.Table(result.Rows())
	if err != nil {
		return "", err
	}
	return sqlgen.Generate(t, s.sqlCfg)
}

// EmitSQL renders t and writes it to path. An empty row set is not an
// error: nothing is written and false is returned.
func (s *Service) EmitSQL(t *sqlgen.Table, path string) (bool, error) {
	text, err := sqlgen.Generate(t, s.sqlCfg)
	if errors.Is(err, sqlgen.ErrEmptyRowSet) {
		s.logger.Warn("No rows to emit", zap.String("path", path))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("Wrote upsert SQL", zap.String("path", path), zap.Int("rows", t.Len()))
	return true, nil
}

// EmitSQLFromCSV generates the upsert from a CSV export. Every value is read
// as text and empty cells become NULL.
func (s *Service) EmitSQLFromCSV(csvPath, sqlPath string) (bool, error) {
	t, err := export.ReadCSV(csvPath)
	if err != nil {
		return false, err
	}
	s.logger.Info("Loaded CSV export", zap.String("path", csvPath), zap.Int("rows", t.Len()))
	return s.EmitSQL(t, sqlPath)
}

// Export writes the result to the configured output directory, once per
// format, with names stamped with at.
func (s *Service) Export(ctx context.Context, result *Result, at time.Time) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	formats, err := export.ParseFormats(s.cfg.Formats)
	if err != nil {
		return nil, err
	}

	paths, err := export.WriteAll(s.cfg.OutputDir, ExportBase, at, formats, s.model, result.Rows())
	if err != nil {
		return paths, err
	}

	for _, p := range paths {
		s.logger.Info("Wrote export", zap.String("path", p))
	}
	return paths, nil
}

// Publish uploads files under prefix, or under the configured prefix when
// prefix is empty.
func (s *Service) Publish(ctx context.Context, paths []string, prefix string) ([]string, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	cfg := s.storageCfg
	if prefix != "" {
		cfg.Prefix = prefix
	}
	return storage.Publish(ctx, s.client, cfg, paths, s.logger)
}

// LatestCSV returns the newest CSV export in the output directory.
func (s *Service) LatestCSV() (string, error) {
	return export.Latest(s.cfg.OutputDir, ExportBase+"_*."+string(export.CSV))
}

func snapshotKey(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())
}

func recordErrors(in []crawl.RecordError) []error {
	errs := make([]error, len(in))
	for i, e := range in {
		errs[i] = e
	}
	return errs
}

package countries

import (
	"sort"

	"country-pipeline/core/reconcile"
	"country-pipeline/feature/countries/models"

	"go.uber.org/zap"
)

// capitalAdapter joins country records with web rows: name_common against
// country_name first, then the joined capital against capital_raw.
// Null and empty keys never match, so a record without a capital is not
// paired with a web row whose capital cell is blank.
type capitalAdapter struct{}

func (capitalAdapter) Name() string { return "capitals" }

func (capitalAdapter) LeftPrimaryKey(r models.CountryRecord) (string, bool) {
	return nonEmpty(r.NameCommon)
}

func (capitalAdapter) RightPrimaryKey(w models.WebCapitalRow) (string, bool) {
	return nonEmpty(w.CountryName)
}

func (capitalAdapter) LeftFallbackKey(r models.CountryRecord) (string, bool) {
	c := r.CapitalText()
	return c, c != ""
}

func (capitalAdapter) RightFallbackKey(w models.WebCapitalRow) (string, bool) {
	return nonEmpty(w.CapitalRaw)
}

// ResolveValue treats an empty capital cell as a value; only a missing
// cell is null.
func (capitalAdapter) ResolveValue(w models.WebCapitalRow) (string, bool) {
	if w.CapitalRaw == nil {
		return "", false
	}
	return *w.CapitalRaw, true
}

func nonEmpty(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

// Reconciler attaches the web capital to each country record.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile left-joins records with web rows. The output has one record per
// input record, in input order; Capital is copied unchanged and the web
// value lands in CapitalFromWeb.
func (r *Reconciler) Reconcile(records []models.CountryRecord, web []models.WebCapitalRow) ([]models.ReconciledRecord, reconcile.Summary) {
	matches, summary := reconcile.Join(records, web, capitalAdapter{})

	out := make([]models.ReconciledRecord, len(records))
	for i, m := range matches {
		out[i] = models.ReconciledRecord{
			CountryRecord:  records[m.Left],
			CapitalFromWeb: m.Value,
			Match:          m.Strategy,
		}
		if !m.Resolved() {
			out[i].Match = reconcile.StrategyNone
		}
	}

	for _, a := range summary.Ambiguities {
		r.logger.Debug("Ambiguous join key, first row wins",
			zap.String("key", a.Key),
			zap.String("strategy", string(a.Strategy)),
			zap.Int("candidates", a.Candidates),
		)
	}

	r.logger.Info("Reconciled records",
		zap.Int("total", summary.Total),
		zap.Int("primary", summary.Primary),
		zap.Int("fallback", summary.Fallback),
		zap.Int("unmatched", summary.Unmatched),
		zap.Int("ambiguous_primary", summary.AmbiguousPrimary),
		zap.Int("ambiguous_fallback", summary.AmbiguousFallback),
	)

	return out, summary
}

// DuplicateKeys returns the cca3 values shared by several records, sorted.
// Records without cca3 are ignored.
func DuplicateKeys(records []models.CountryRecord) []string {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		if r.CCA3 != nil {
			counts[*r.CCA3]++
		}
	}
	var dups []string
	for k, n := range counts {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	sort.Strings(dups)
	return dups
}

package countries_test

import (
	"testing"

	"country-pipeline/core/reconcile"
	"country-pipeline/feature/countries"
	"country-pipeline/feature/countries/crawl"
	"country-pipeline/feature/countries/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ptr[T any](v T) *T { return &v }

func record(cca3, name string, capitals ...string) models.CountryRecord {
	r := models.CountryRecord{CCA3: ptr(cca3), Capital: capitals}
	if name != "" {
		r.NameCommon = ptr(name)
	}
	return r
}

func webRows(rows ...models.RawWebRow) []models.WebCapitalRow {
	return countries.ParseWebRows(rows)
}

func TestReconcile_NullWebCellFallsBack(t *testing.T) {
	raw, report, err := crawl.DecodeWebSnapshot([]byte(`[["France", null], ["Elsewhere", "Paris"]]`), "web.json")
	require.NoError(t, err)
	require.Zero(t, report.Skipped)

	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(
		[]models.CountryRecord{record("FRA", "France", "Paris")},
		countries.ParseWebRows(raw),
	)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].CapitalFromWeb)
	assert.Equal(t, "Paris", *out[0].CapitalFromWeb)
	assert.Equal(t, reconcile.StrategyFallback, out[0].Match)
	assert.Equal(t, 1, summary.PrimaryWithoutValue)
}

func TestReconcile_PrimaryMatch(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(
		[]models.CountryRecord{record("FRA", "France", "Paris")},
		webRows(models.NewRawWebRow("France", "Paris")),
	)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].CapitalFromWeb)
	assert.Equal(t, "Paris", *out[0].CapitalFromWeb)
	assert.Equal(t, reconcile.StrategyPrimary, out[0].Match)
	assert.Equal(t, 1, summary.Primary)
}

func TestReconcile_FallbackOnCapital(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(
		[]models.CountryRecord{record("AAA", "Country A", "Capital X")},
		webRows(models.NewRawWebRow("Land A", "Capital X")),
	)

	require.NotNil(t, out[0].CapitalFromWeb)
	assert.Equal(t, "Capital X", *out[0].CapitalFromWeb)
	assert.Equal(t, reconcile.StrategyFallback, out[0].Match)
	assert.Equal(t, []string{"Capital X"}, out[0].Capital, "capital is never overwritten")
	assert.Equal(t, 1, summary.Fallback)
}

func TestReconcile_PrimaryWithoutCapitalFallsBack(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(
		[]models.CountryRecord{record("AAA", "Country A", "Capital X")},
		webRows(
			models.NewRawWebRow("Country A"),
			models.NewRawWebRow("Somewhere", "Capital X"),
		),
	)

	require.NotNil(t, out[0].CapitalFromWeb)
	assert.Equal(t, "Capital X", *out[0].CapitalFromWeb)
	assert.Equal(t, reconcile.StrategyFallback, out[0].Match)
	assert.Equal(t, 1, summary.PrimaryWithoutValue)
}

func TestReconcile_NoMatch(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(
		[]models.CountryRecord{
			record("ZZZ", "Nowhere", "Noplace"),
			{CCA3: ptr("NIL")},
		},
		webRows(models.NewRawWebRow("France", "Paris"), models.NewRawWebRow("", "")),
	)

	require.Len(t, out, 2)
	for _, rec := range out {
		assert.Nil(t, rec.CapitalFromWeb)
		assert.Equal(t, reconcile.StrategyNone, rec.Match)
	}
	assert.Equal(t, 2, summary.Unmatched)
}

func TestReconcile_CaseSensitive(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, _ := r.Reconcile(
		[]models.CountryRecord{record("CIV", "Ivory Coast", "Yamoussoukro")},
		webRows(models.NewRawWebRow("ivory coast", "yamoussoukro")),
	)
	assert.Nil(t, out[0].CapitalFromWeb)
}

func TestReconcile_FirstRowWins(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := countries.NewReconciler(zap.New(core))

	out, summary := r.Reconcile(
		[]models.CountryRecord{record("GEO", "Georgia", "Tbilisi")},
		webRows(
			models.NewRawWebRow("Georgia", "Tbilisi"),
			models.NewRawWebRow("Georgia", "Atlanta"),
		),
	)

	assert.Equal(t, "Tbilisi", *out[0].CapitalFromWeb)
	assert.Equal(t, 1, summary.AmbiguousPrimary)
	assert.Equal(t, 1, logs.FilterMessage("Ambiguous join key, first row wins").Len())
}

func TestReconcile_EmptyCapitalCellIsAValue(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())
	out, _ := r.Reconcile(
		[]models.CountryRecord{record("XXX", "Blank", "Somewhere")},
		webRows(models.NewRawWebRow("Blank", "")),
	)

	require.NotNil(t, out[0].CapitalFromWeb)
	assert.Equal(t, "", *out[0].CapitalFromWeb)
	assert.Equal(t, reconcile.StrategyPrimary, out[0].Match)
}

func TestReconcile_TotalAndOrdered(t *testing.T) {
	records := []models.CountryRecord{
		record("C", "Gamma", "G"),
		record("A", "Alpha", "A1"),
		record("B", "Beta", "B1"),
		record("A", "Alpha", "A1"),
	}
	r := countries.NewReconciler(zap.NewNop())
	out, summary := r.Reconcile(records, webRows(models.NewRawWebRow("Alpha", "A1")))

	require.Len(t, out, len(records))
	assert.Equal(t, len(records), summary.Total)
	for i := range records {
		assert.Equal(t, *records[i].CCA3, *out[i].CCA3)
	}
	assert.Equal(t, 2, summary.Primary, "duplicate records both join")
}

func TestReconcile_EmptyInputs(t *testing.T) {
	r := countries.NewReconciler(zap.NewNop())

	out, summary := r.Reconcile(nil, webRows(models.NewRawWebRow("France", "Paris")))
	assert.Empty(t, out)
	assert.Zero(t, summary.Total)

	out, summary = r.Reconcile([]models.CountryRecord{record("FRA", "France", "Paris")}, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].CapitalFromWeb)
	assert.Equal(t, 1, summary.Unmatched)
}

func TestDuplicateKeys(t *testing.T) {
	records := []models.CountryRecord{
		record("USA", "United States"),
		record("FRA", "France"),
		record("USA", "United States"),
		{NameCommon: ptr("No code")},
		{NameCommon: ptr("No code either")},
		record("FRA", "France"),
	}
	assert.Equal(t, []string{"FRA", "USA"}, countries.DuplicateKeys(records))
	assert.Empty(t, countries.DuplicateKeys(records[:2]))
}

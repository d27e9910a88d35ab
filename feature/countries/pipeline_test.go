package countries_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"country-pipeline/core/storage"
	"country-pipeline/core/storage/mocks"
	"country-pipeline/feature/countries"
	"country-pipeline/feature/countries/crawl"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const capitalsPage = `<html><body><table class="wikitable">
<tr><th>Country</th><th>Capital</th></tr>
<tr><td>United States</td><td>Washington, D.C.</td></tr>
<tr><td>France</td><td>Paris</td></tr>
</table></body></html>`

func upstream(t *testing.T, apiStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3.1/all", func(w http.ResponseWriter, r *http.Request) {
		if apiStatus != http.StatusOK {
			w.WriteHeader(apiStatus)
			return
		}
		_, _ = w.Write([]byte(apiSnapshot))
	})
	mux.HandleFunc("/wiki/capitals", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(capitalsPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newPipeline(t *testing.T, srv *httptest.Server, cfg countries.Config, client storage.Client, skipUpload bool) *countries.Pipeline {
	t.Helper()
	crawlCfg := crawl.Config{
		APIURL:        srv.URL + "/v3.1/all",
		WikiURL:       srv.URL + "/wiki/capitals",
		UserAgent:     "test-agent",
		RetryAttempts: 1,
		RetryDelayMS:  1,
	}
	api := crawl.NewAPISource(crawlCfg, srv.Client(), zap.NewNop())
	web := crawl.NewWebSource(crawlCfg, srv.Client(), zap.NewNop())
	return countries.NewPipeline(api, web, newService(t, cfg, client, zap.NewNop()), zap.NewNop(), skipUpload)
}

func TestPipeline_RunSkipUpload(t *testing.T) {
	cfg := testConfig(t)
	p := newPipeline(t, upstream(t, http.StatusOK), cfg, nil, true)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.APIRecords)
	assert.Equal(t, 2, report.WebRows)
	assert.Equal(t, 2, report.Summary.Primary)
	assert.Len(t, report.Exports, 2)
	assert.Equal(t, cfg.SQLPath(), report.SQLPath)
	assert.Empty(t, report.Uploaded)

	assert.FileExists(t, cfg.APISnapshotPath())
	assert.FileExists(t, cfg.WebSnapshotPath())

	text, err := os.ReadFile(cfg.SQLPath())
	require.NoError(t, err)
	assert.Contains(t, string(text), "('USA', 'United States'")
	assert.Contains(t, string(text), "'Paris')\nON CONFLICT")
}

func TestPipeline_RunUploadsUnderRunID(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	m := new(mocks.Client)
	m.On("BucketExists", ctx, "countries").Return(true, nil)
	m.On("PutObject", ctx, "countries", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "raw/outputs/")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	p := newPipeline(t, upstream(t, http.StatusOK), cfg, m, false)
	report, err := p.Run(ctx)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 3)
	for _, key := range report.Uploaded {
		assert.True(t, strings.HasPrefix(key, "raw/outputs/"+report.RunID+"/"), key)
	}
	assert.Equal(t, "raw/outputs/"+report.RunID+"/countries_upsert.sql", report.Uploaded[2])
	m.AssertNumberOfCalls(t, "PutObject", 3)
}

func TestPipeline_StopsAtFailedStage(t *testing.T) {
	cfg := testConfig(t)
	p := newPipeline(t, upstream(t, http.StatusNotFound), cfg, nil, true)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, crawl.ErrStatus)
	assert.Contains(t, err.Error(), "stage crawl_api")
	assert.Zero(t, report.WebRows)
	assert.NoFileExists(t, cfg.WebSnapshotPath())
}

func TestPipeline_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	p := newPipeline(t, upstream(t, http.StatusOK), cfg, nil, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

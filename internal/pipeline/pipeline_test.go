package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/site"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
)

const template = `<html><head><title>Clubin</title></head><body></body></html>`

type fakeAPI struct {
	clubFetches atomic.Int32
	shortLinks  atomic.Int32
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/clubs":
		f.clubFetches.Add(1)
		_, _ = w.Write([]byte(`[{"id":"c1","name":"Toit","location":"Goa"}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/events":
		_, _ = w.Write([]byte(`[{"id":"e1","title":"Sundowner","club":"Toit","date":"2026-11-03","promoterRef":{"id":"p1","name":"Night Owls"}}]`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/shortlinks":
		f.shortLinks.Add(1)
		var req struct {
			Type     string `json:"type"`
			TargetID string `json:"targetId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": req.Type + req.TargetID})
	default:
		http.NotFound(w, r)
	}
}

func newRunner(t *testing.T, api http.Handler, ledger *store.Store) Runner {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIBase = srv.URL + "/api/"
	cfg.OutputDir = t.TempDir()
	cfg.CacheDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "index.html"), []byte(template), 0o644))

	return Runner{Config: cfg, Logger: logging.Discard(), Ledger: ledger}
}

func TestRunAgainstAPI(t *testing.T) {
	fake := &fakeAPI{}
	r := newRunner(t, fake, nil)

	stats, err := r.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, site.Stats{
		Pages:           15,
		Cities:          9,
		Clubs:           1,
		Events:          1,
		Promoters:       1,
		ClubShortLinks:  1,
		EventShortLinks: 1,
	}, stats)
	assert.FileExists(t, filepath.Join(r.Config.OutputDir, "c", "clubc1", "index.html"))
	assert.FileExists(t, filepath.Join(r.Config.OutputDir, "e", "evente1", "index.html"))
	assert.FileExists(t, filepath.Join(r.Config.CacheDir, "prerender_clubs.json"))
}

func TestCachedRunReusesSnapshot(t *testing.T) {
	fake := &fakeAPI{}
	r := newRunner(t, fake, nil)

	_, err := r.Run(context.Background(), false)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.clubFetches.Load())
	assert.Equal(t, int32(4), fake.shortLinks.Load(), "short links are requested on every run")
}

func TestRunRecordsLedger(t *testing.T) {
	ledger, err := store.NewStore(filepath.Join(t.TempDir(), "prerender.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	r := newRunner(t, &fakeAPI{}, ledger)

	_, err = r.Run(context.Background(), false)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), true)
	require.NoError(t, err)

	runs, err := ledger.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byCached := map[bool]store.BuildRun{}
	for _, run := range runs {
		byCached[run.Cached] = run
	}
	assert.Equal(t, store.RunSucceeded, byCached[false].Status)
	assert.Equal(t, 15, byCached[false].Pages)
	assert.Equal(t, 15, byCached[false].ChangedPages)
	assert.Equal(t, 0, byCached[true].ChangedPages, "identical rerun changes nothing")
}

func TestRunMissingTemplateFailsRun(t *testing.T) {
	ledger, err := store.NewStore(filepath.Join(t.TempDir(), "prerender.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	r := newRunner(t, &fakeAPI{}, ledger)
	require.NoError(t, os.Remove(filepath.Join(r.Config.OutputDir, "index.html")))

	_, err = r.Run(context.Background(), false)
	assert.ErrorIs(t, err, site.ErrTemplateMissing)

	runs, err := ledger.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunFailed, runs[0].Status)
}

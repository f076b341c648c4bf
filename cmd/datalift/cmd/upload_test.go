package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/datalift/datalift/internal/loader"
	"github.com/datalift/datalift/internal/metrics"
	"github.com/datalift/datalift/internal/server"
	"github.com/datalift/datalift/internal/store/badger"
	"github.com/datalift/datalift/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// startTestBackend runs a real tracking server over httptest and returns a
// client pointed at it.
func startTestBackend(t *testing.T) *APIClient {
	t.Helper()

	store, err := badger.NewStore(t.TempDir())
	require.NoError(t, err)

	srv, err := server.NewServer(server.Config{
		Store:   store,
		Metrics: metrics.NewCollector(zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})

	return &APIClient{
		baseURL:    ts.URL,
		httpClient: ts.Client(),
	}
}

func TestDoUpload(t *testing.T) {
	client := startTestBackend(t)
	ld := loader.New(zap.NewNop())

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,score\nalice,1\nbob,2\n"), 0644))

	artifact, tbl, err := doUpload(client, ld, uploadOptions{
		FilePath:    path,
		Project:     "default",
		Name:        "raw-data",
		Type:        "dataset",
		Description: "test upload",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "raw-data", artifact.Name)

	file := artifact.File(artifactFileName)
	require.NotNil(t, file)
	assert.Equal(t, int64(len("name,score\nalice,1\nbob,2\n")), file.Size)

	// The run the artifact was logged under is finished.
	resp, err := client.Get("/api/v1/runs/" + artifact.RunID)
	require.NoError(t, err)

	var run tracker.Run
	require.NoError(t, client.HandleResponse(resp, &run))
	assert.Equal(t, tracker.RunStateFinished, run.State)
	assert.Equal(t, "data-loader", run.JobType)

	// The uploaded content is the serialized table.
	resp, err = client.Get("/api/v1/artifacts/" + artifact.ID + "/files/" + artifactFileName)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoUpload_LoadFailure(t *testing.T) {
	client := startTestBackend(t)
	ld := loader.New(zap.NewNop())

	_, _, err := doUpload(client, ld, uploadOptions{
		FilePath: filepath.Join(t.TempDir(), "missing.csv"),
		Project:  "default",
		Name:     "raw-data",
	})
	assert.ErrorIs(t, err, loader.ErrFileNotFound)

	// The run was started before the load failed and stays unfinished.
	resp, err := client.Get("/api/v1/runs")
	require.NoError(t, err)

	var runs []tracker.Run
	require.NoError(t, client.HandleResponse(resp, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, tracker.RunStateRunning, runs[0].State)
}

func TestDoUpload_JSONSplit(t *testing.T) {
	client := startTestBackend(t)
	ld := loader.New(zap.NewNop())

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"columns": ["a", "b"], "data": [[1, "x"], [2, null]]}`), 0644))

	artifact, tbl, err := doUpload(client, ld, uploadOptions{
		FilePath: path,
		Project:  "default",
		Name:     "split-data",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	require.NotNil(t, artifact.File(artifactFileName))
}

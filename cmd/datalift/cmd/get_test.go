package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/datalift/datalift/pkg/tracker"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResourceType(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"run", "run"},
		{"runs", "run"},
		{"artifact", "artifact"},
		{"artifacts", "artifact"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeResourceType(tt.in))
		})
	}
}

func TestGetGetPath(t *testing.T) {
	assert.Equal(t, "/api/v1/runs/abc", getGetPath("run", "abc"))
	assert.Equal(t, "/api/v1/artifacts/abc", getGetPath("artifact", "abc"))
	assert.Equal(t, "", getGetPath("unknown", "abc"))
}

func TestGetListPath(t *testing.T) {
	assert.Equal(t, "/api/v1/runs?project=default", getListPath("run", "default"))
	assert.Equal(t, "/api/v1/runs", getListPath("run", ""))
	assert.Equal(t, "/api/v1/artifacts", getListPath("artifact", ""))
	assert.Equal(t, "", getListPath("unknown", ""))

	// Project names are query-escaped.
	assert.Equal(t, "/api/v1/runs?project=my+project%26x", getListPath("run", "my project&x"))
}

func TestRunGet_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"not_found"}`)
	}))
	defer ts.Close()

	viper.Set("server", ts.URL)
	defer viper.Set("server", "")

	err := runGet(getCmd, []string{"run", "missing"})
	require.EqualError(t, err, `run "missing" not found`)

	err = runGet(getCmd, []string{"artifact", "missing"})
	require.EqualError(t, err, `artifact "missing" not found`)
}

func TestPrintRunTable(t *testing.T) {
	runs := []tracker.Run{
		{
			ID:        "run-1",
			Project:   "default",
			JobType:   "data-loader",
			State:     tracker.RunStateFinished,
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	err := printRunTable(&buf, runs)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "data-loader")
	assert.Contains(t, out, "2024-05-01 12:00:00")
}

func TestPrintRunTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := printRunTable(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "No runs found.\n", buf.String())
}

func TestPrintArtifactTable(t *testing.T) {
	artifacts := []tracker.Artifact{
		{
			ID:    "art-1",
			Name:  "raw-data",
			Type:  "dataset",
			RunID: "run-1",
			Files: []tracker.ArtifactFile{{Name: "raw_data.csv", Size: 10}},
		},
	}

	var buf bytes.Buffer
	err := printArtifactTable(&buf, artifacts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "raw-data")
	assert.Contains(t, out, "dataset")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "<unknown>", formatTime(time.Time{}))
	assert.Equal(t, "2024-05-01 12:00:00", formatTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

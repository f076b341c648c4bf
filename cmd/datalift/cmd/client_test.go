package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_IsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not_found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	client := &APIClient{baseURL: ts.URL, httpClient: ts.Client()}

	resp, err := client.Get("/missing")
	require.NoError(t, err)
	notFoundErr := client.HandleResponse(resp, nil)
	require.Error(t, notFoundErr)
	assert.True(t, client.IsNotFound(notFoundErr))

	// Detection survives wrapping.
	assert.True(t, client.IsNotFound(fmt.Errorf("failed to get resource: %w", notFoundErr)))

	resp, err = client.Get("/boom")
	require.NoError(t, err)
	serverErr := client.HandleResponse(resp, nil)
	require.Error(t, serverErr)
	assert.False(t, client.IsNotFound(serverErr))

	assert.False(t, client.IsNotFound(nil))
	assert.False(t, client.IsNotFound(fmt.Errorf("status 404 mentioned in passing")))
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: http.StatusConflict, Body: `{"error":"conflict"}`}
	assert.Equal(t, `API error (status 409): {"error":"conflict"}`, err.Error())
}

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/datalift/datalift/pkg/tracker"
	"github.com/spf13/viper"
)

// APIError is a non-2xx response from the tracking server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// APIClient provides methods to interact with the tracking server.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// NewAPIClient creates a new API client.
func NewAPIClient() *APIClient {
	server := viper.GetString("server")
	if server == "" {
		server = "http://localhost:8080"
	}

	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("DATALIFT_API_KEY")
	}

	return &APIClient{
		baseURL:    strings.TrimSuffix(server, "/"),
		httpClient: &http.Client{},
		apiKey:     apiKey,
	}
}

// doRequest performs an HTTP request with authentication headers.
func (c *APIClient) doRequest(method, path, contentType string, body io.Reader) (*http.Response, error) {
	url := c.baseURL + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *APIClient) Get(path string) (*http.Response, error) {
	return c.doRequest(http.MethodGet, path, "", nil)
}

// Post performs a POST request with JSON body.
func (c *APIClient) Post(path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}
	return c.doRequest(http.MethodPost, path, "application/json", &buf)
}

// PutRaw performs a PUT request with a raw body.
func (c *APIClient) PutRaw(path, contentType string, body []byte) (*http.Response, error) {
	return c.doRequest(http.MethodPut, path, contentType, bytes.NewReader(body))
}

// HandleResponse handles an HTTP response, checking for errors and decoding JSON.
func (c *APIClient) HandleResponse(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// IsNotFound reports whether err is a 404 response from the server.
func (c *APIClient) IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// CreateRun starts a new run on the tracking server.
func (c *APIClient) CreateRun(project, jobType string) (*tracker.Run, error) {
	resp, err := c.Post("/api/v1/runs", tracker.CreateRunRequest{
		Project: project,
		JobType: jobType,
	})
	if err != nil {
		return nil, err
	}

	var run tracker.Run
	if err := c.HandleResponse(resp, &run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &run, nil
}

// CreateArtifact registers a new artifact under a run.
func (c *APIClient) CreateArtifact(runID string, req tracker.CreateArtifactRequest) (*tracker.Artifact, error) {
	resp, err := c.Post(fmt.Sprintf("/api/v1/runs/%s/artifacts", runID), req)
	if err != nil {
		return nil, err
	}

	var artifact tracker.Artifact
	if err := c.HandleResponse(resp, &artifact); err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	return &artifact, nil
}

// UploadFile uploads raw file content into an artifact.
func (c *APIClient) UploadFile(artifactID, name string, content []byte) (*tracker.ArtifactFile, error) {
	resp, err := c.PutRaw(fmt.Sprintf("/api/v1/artifacts/%s/files/%s", artifactID, name), "text/csv", content)
	if err != nil {
		return nil, err
	}

	var file tracker.ArtifactFile
	if err := c.HandleResponse(resp, &file); err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return &file, nil
}

// FinishRun marks a run as finished.
func (c *APIClient) FinishRun(runID string) (*tracker.Run, error) {
	resp, err := c.Post(fmt.Sprintf("/api/v1/runs/%s/finish", runID), nil)
	if err != nil {
		return nil, err
	}

	var run tracker.Run
	if err := c.HandleResponse(resp, &run); err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}
	return &run, nil
}

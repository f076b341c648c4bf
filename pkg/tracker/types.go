// Package tracker defines the resource model shared by the datalift CLI and
// the tracking server.
package tracker

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// RunState represents the lifecycle state of a Run.
type RunState string

const (
	RunStateRunning  RunState = "running"
	RunStateFinished RunState = "finished"
)

// Run represents one tracked invocation of a tool. Every artifact is logged
// under a run.
type Run struct {
	ID         string     `json:"id"`
	Project    string     `json:"project"`
	JobType    string     `json:"jobType,omitempty"`
	State      RunState   `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Artifact is a named, typed collection of files attached to a run.
type Artifact struct {
	ID          string         `json:"id"`
	RunID       string         `json:"runId"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Files       []ArtifactFile `json:"files,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ArtifactFile describes one file stored within an artifact.
type ArtifactFile struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"` // hex-encoded sha256 of the content
}

// File returns the named file entry, or nil if the artifact has no such file.
func (a *Artifact) File(name string) *ArtifactFile {
	for i := range a.Files {
		if a.Files[i].Name == name {
			return &a.Files[i]
		}
	}
	return nil
}

// CreateRunRequest is the body of POST /api/v1/runs.
type CreateRunRequest struct {
	Project string `json:"project"`
	JobType string `json:"jobType,omitempty"`
}

// CreateArtifactRequest is the body of POST /api/v1/runs/:id/artifacts.
type CreateArtifactRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Package store provides the storage abstraction for tracked runs and
// artifacts.
package store

import (
	"context"

	"github.com/datalift/datalift/pkg/tracker"
)

// Store is the persistence interface used by the tracking server.
type Store interface {
	CreateRun(ctx context.Context, run *tracker.Run) error
	GetRun(ctx context.Context, id string) (*tracker.Run, error)
	ListRuns(ctx context.Context) ([]*tracker.Run, error)
	UpdateRun(ctx context.Context, run *tracker.Run) error

	CreateArtifact(ctx context.Context, artifact *tracker.Artifact) error
	GetArtifact(ctx context.Context, id string) (*tracker.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*tracker.Artifact, error)
	UpdateArtifact(ctx context.Context, artifact *tracker.Artifact) error

	// PutFile stores raw file content for an artifact; GetFile returns it.
	PutFile(ctx context.Context, artifactID, name string, content []byte) error
	GetFile(ctx context.Context, artifactID, name string) ([]byte, error)

	Close() error
}

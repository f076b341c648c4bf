// Package badger provides a BadgerDB implementation of the Store interface.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/datalift/datalift/pkg/tracker"
	"github.com/dgraph-io/badger/v4"
)

const (
	runPrefix      = "/run/"
	artifactPrefix = "/artifact/"
	filePrefix     = "/file/"
)

// Store implements store.Store using BadgerDB. Run and artifact metadata are
// JSON-encoded records; file content is stored raw.
type Store struct {
	db     *badger.DB
	stopCh chan struct{}
	stopWg sync.WaitGroup
}

// NewStore creates a new BadgerDB store rooted at dataDir.
func NewStore(dataDir string) (*Store, error) {
	opts := badger.DefaultOptions(filepath.Join(dataDir, "badger"))
	opts.Logger = nil // Disable Badger's default logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		stopCh: make(chan struct{}),
	}

	s.stopWg.Add(1)
	go s.runGC()

	return s, nil
}

// runGC periodically reclaims value-log space.
func (s *Store) runGC() {
	defer s.stopWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				if err := s.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
		case <-s.stopCh:
			return
		}
	}
}

// Close stops background tasks and closes the database.
func (s *Store) Close() error {
	close(s.stopCh)
	s.stopWg.Wait()
	return s.db.Close()
}

func runKey(id string) []byte      { return []byte(runPrefix + id) }
func artifactKey(id string) []byte { return []byte(artifactPrefix + id) }
func fileKey(artifactID, name string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", filePrefix, artifactID, name))
}

// create stores a JSON-encoded record, failing if the key already exists.
func (s *Store) create(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return tracker.ErrAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check existence: %w", err)
		}
		return txn.Set(key, data)
	})
}

// update overwrites an existing JSON-encoded record.
func (s *Store) update(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return tracker.ErrNotFound
			}
			return fmt.Errorf("failed to check existence: %w", err)
		}
		return txn.Set(key, data)
	})
}

// get reads a JSON-encoded record into v.
func (s *Store) get(key []byte, v interface{}) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return tracker.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

// listValues collects the raw values under a key prefix.
func (s *Store) listValues(prefix []byte) ([][]byte, error) {
	var values [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to copy value: %w", err)
			}
			values = append(values, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// CreateRun stores a new run, assigning an ID if unset.
func (s *Store) CreateRun(ctx context.Context, run *tracker.Run) error {
	ensureID(&run.ID)
	return s.create(runKey(run.ID), run)
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*tracker.Run, error) {
	var run tracker.Run
	if err := s.get(runKey(id), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all stored runs.
func (s *Store) ListRuns(ctx context.Context) ([]*tracker.Run, error) {
	values, err := s.listValues([]byte(runPrefix))
	if err != nil {
		return nil, err
	}

	runs := make([]*tracker.Run, 0, len(values))
	for _, data := range values {
		var run tracker.Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, nil
}

// UpdateRun overwrites an existing run.
func (s *Store) UpdateRun(ctx context.Context, run *tracker.Run) error {
	return s.update(runKey(run.ID), run)
}

// CreateArtifact stores a new artifact, assigning an ID if unset.
func (s *Store) CreateArtifact(ctx context.Context, artifact *tracker.Artifact) error {
	ensureID(&artifact.ID)
	return s.create(artifactKey(artifact.ID), artifact)
}

// GetArtifact retrieves an artifact by ID.
func (s *Store) GetArtifact(ctx context.Context, id string) (*tracker.Artifact, error) {
	var artifact tracker.Artifact
	if err := s.get(artifactKey(id), &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// ListArtifacts returns all stored artifacts.
func (s *Store) ListArtifacts(ctx context.Context) ([]*tracker.Artifact, error) {
	values, err := s.listValues([]byte(artifactPrefix))
	if err != nil {
		return nil, err
	}

	artifacts := make([]*tracker.Artifact, 0, len(values))
	for _, data := range values {
		var artifact tracker.Artifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
		}
		artifacts = append(artifacts, &artifact)
	}
	return artifacts, nil
}

// UpdateArtifact overwrites an existing artifact.
func (s *Store) UpdateArtifact(ctx context.Context, artifact *tracker.Artifact) error {
	return s.update(artifactKey(artifact.ID), artifact)
}

// PutFile stores raw file content for an artifact.
func (s *Store) PutFile(ctx context.Context, artifactID, name string, content []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(fileKey(artifactID, name), content)
	})
}

// GetFile returns the raw content of an artifact file.
func (s *Store) GetFile(ctx context.Context, artifactID, name string) ([]byte, error) {
	var content []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fileKey(artifactID, name))
		if err == badger.ErrKeyNotFound {
			return tracker.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}
		content, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

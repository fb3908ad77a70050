// Package file persists threads as JSON documents on the local filesystem,
// one file per thread. It suits single-host deployments that need history to
// survive restarts without running Redis.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/voyant/pkg/domain"
)

// Store implements ports.HistoryStore on a directory of JSON files.
type Store struct {
	basePath string
}

// New creates a store rooted at basePath. An empty path defaults to
// ".voyant/threads" under the working directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".voyant", "threads")
	}
	return &Store{basePath: basePath}
}

// Save writes the thread atomically: temp file, fsync, rename. A torn write
// must never leave a half-serialized thread behind the real one.
func (s *Store) Save(ctx context.Context, thread *domain.Thread) error {
	if err := validID(thread.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure thread directory: %w", err)
	}

	data, err := json.MarshalIndent(thread, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal thread: %w", err)
	}

	// The temp file shares the destination directory so the rename stays on
	// one filesystem.
	tmpFile, err := os.CreateTemp(s.basePath, "tmp-"+thread.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(thread.ID)
	// Windows also refuses to rename over an existing file, so clear it first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to replace existing thread file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load reads one thread back from disk.
func (s *Store) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	if err := validID(threadID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(threadID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to read thread file: %w", err)
	}

	var thread domain.Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thread: %w", err)
	}
	return &thread, nil
}

// Delete removes the thread file. Deleting a missing thread is not an error.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	if err := validID(threadID); err != nil {
		return err
	}
	if err := os.Remove(s.path(threadID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thread file: %w", err)
	}
	return nil
}

// List returns the IDs of all stored threads.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *Store) path(threadID string) string {
	return filepath.Join(s.basePath, threadID+".json")
}

// validID rejects IDs that would escape the store directory. Thread IDs can
// be caller-chosen, not just generated UUIDs.
func validID(id string) error {
	if id == "" {
		return fmt.Errorf("thread ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("thread ID %q must not contain path separators", id)
	}
	return nil
}

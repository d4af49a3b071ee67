package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store persists rendered exports under a base directory with timestamped
// names so repeated exports of the same resource never clobber each other.
type Store struct {
	baseDir string
	now     func() time.Time
}

// NewStore ensures the output directory exists and returns a handle.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &Store{baseDir: baseDir, now: time.Now}, nil
}

// Save renders the dataset with the exporter and writes it to disk,
// returning the full path of the written file.
func (s *Store) Save(resource string, exporter Exporter, dataset Dataset) (string, error) {
	rendered, err := exporter.Render(dataset)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.%s", resource, s.now().Format("20060102-150405"), exporter.Extension())
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// CleanupOlderThan removes exports older than the provided TTL and returns
// the deleted names.
func (s *Store) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := s.now().Add(-ttl)
	deleted := make([]string, 0)
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read exports directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		deleted = append(deleted, entry.Name())
	}
	return deleted, nil
}

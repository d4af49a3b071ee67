package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Faculties",
		Columns: []Column{{Header: "ID", Key: "id"}, {Header: "Name", Key: "name"}},
		Rows: []map[string]string{
			{"id": "1", "name": "Computer Science"},
			{"id": "2", "name": "Economics"},
		},
	}
}

func TestStoreSaveWritesTimestampedFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("faculties", NewCSVExporter(), sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, ".csv", filepath.Ext(path))
	assert.Contains(t, filepath.Base(path), "faculties-")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Computer Science")
}

func TestStoreCleanupRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	stale := filepath.Join(dir, "faculties-old.csv")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh, err := store.Save("faculties", NewCSVExporter(), sampleDataset())
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"faculties-old.csv"}, deleted)

	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

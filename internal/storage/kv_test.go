package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	file, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	sqlite, err := NewSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, SnapshotKey)
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, kv.Put(ctx, SnapshotKey, []byte(`{"version":1}`)))
			got, err := kv.Get(ctx, SnapshotKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":1}`, string(got))

			require.NoError(t, kv.Put(ctx, SnapshotKey, []byte(`{"version":1,"groups":[]}`)))
			got, err = kv.Get(ctx, SnapshotKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":1,"groups":[]}`, string(got))
		})
	}
}

func TestFileKV_WritesKeyFileAndNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Put(context.Background(), SnapshotKey, []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SnapshotKey+".json", entries[0].Name())
}

func TestFileKV_RejectsPathLikeKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, kv.Put(context.Background(), key, []byte("{}")), key)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Config{Backend: "redis", DataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	dir := t.TempDir()
	kv, err := Open(Config{Backend: BackendSQLite, DataDir: dir})
	require.NoError(t, err)
	defer kv.Close()

	_, err = os.Stat(filepath.Join(dir, "nirmaan.db"))
	assert.NoError(t, err)
}

package index

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/prefix-match-server/internal/trie"
)

func writeBlob(t *testing.T, dir, name string, records []trie.Record) string {
	t.Helper()
	blob, err := trie.Build(records)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, blob, 0o644))
	return path
}

func TestRegistryReloadAndQuery(t *testing.T) {
	dir := t.TempDir()
	pathA := writeBlob(t, dir, "a.bin", []trie.Record{
		{Key: "al", Value: trie.StringArray{{Name: "alpha", Rank: 0.1}}},
	})

	r := NewRegistry(pathA, "", "")
	assert.False(t, r.Active())

	require.NoError(t, r.Reload(context.Background(), ""))
	assert.True(t, r.Active())
	assert.Equal(t, pathA, r.ActivePath())

	hits := r.Query([]string{"al"}, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "alpha", hits[0].Name)
}

func TestRegistryReloadSwapsAtomically(t *testing.T) {
	dir := t.TempDir()
	pathA := writeBlob(t, dir, "a.bin", []trie.Record{
		{Key: "al", Value: trie.StringArray{{Name: "alpha", Rank: 0.1}}},
	})
	pathB := writeBlob(t, dir, "b.bin", []trie.Record{
		{Key: "be", Value: trie.StringArray{{Name: "beta", Rank: 0.1}}},
	})

	r := NewRegistry(pathA, "", "")
	require.NoError(t, r.Reload(context.Background(), ""))
	require.NoError(t, r.Reload(context.Background(), pathB))

	assert.Empty(t, r.Query([]string{"al"}, 0))
	hits := r.Query([]string{"be"}, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "beta", hits[0].Name)
}

func TestRegistryReloadBusy(t *testing.T) {
	r := NewRegistry("", "", "")
	atomic.StoreInt32(&r.reloading, 1)
	err := r.Reload(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrReloadBusy)
}

func TestRegistryReloadMissingFileKeepsOldActive(t *testing.T) {
	dir := t.TempDir()
	pathA := writeBlob(t, dir, "a.bin", []trie.Record{
		{Key: "al", Value: trie.StringArray{{Name: "alpha", Rank: 0.1}}},
	})

	r := NewRegistry(pathA, "", "")
	require.NoError(t, r.Reload(context.Background(), ""))

	err := r.Reload(context.Background(), filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)

	hits := r.Query([]string{"al"}, 0)
	require.Len(t, hits, 1)
}

func TestRegistryQueryBeforeAnyReload(t *testing.T) {
	r := NewRegistry("", "", "")
	assert.Nil(t, r.Query([]string{"x"}, 0))
}

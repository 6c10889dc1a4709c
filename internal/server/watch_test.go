package server

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/internal/trie"
)

func TestWatcherNoopWithoutPath(t *testing.T) {
	w, err := NewWatcher(index.NewRegistry("", "", ""), "", &Metrics{})
	require.NoError(t, err)
	assert.NoError(t, w.Start(time.Second))
}

func TestWatcherReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/index.bin"

	blob, err := trie.Build([]trie.Record{{Key: "a", Value: trie.StringArray{{Name: "a", Rank: 0}}}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	r := index.NewRegistry(path, "", "")
	w, err := NewWatcher(r, path, &Metrics{})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	w.poll()
	assert.True(t, r.Active())
	assert.Equal(t, int64(1), w.metrics.ReloadCount())
}

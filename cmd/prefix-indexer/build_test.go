package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/prefix-match-server/internal/trie"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
)

func testDict() *romanize.Dictionary {
	d := romanize.NewDictionary()
	d.Set("北", []string{"bei"})
	d.Set("京", []string{"jing"})
	return d
}

func writeRankedFile(t *testing.T, contents string) string {
	t.Helper()
	path := t.TempDir() + "/ranked.txt"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func readerFor(t *testing.T, blob []byte) *trie.Reader {
	t.Helper()
	r := trie.NewReader()
	require.NoError(t, r.Assign(blob))
	return r
}

func TestBuildIndexGroupsByRomanizedKey(t *testing.T) {
	path := writeRankedFile(t, "北京\t1.0\n北京\t2.0\n")

	blob, err := buildIndex(testDict(), path)
	require.NoError(t, err)

	hits := readerFor(t, blob).GetChildren("beijing", 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "beijing", hits[0].Key)
	assert.Len(t, hits[0].Value, 2)
}

func TestBuildIndexSkipsMalformedLines(t *testing.T) {
	path := writeRankedFile(t, "not-enough-fields\n北京\t1.0\nbadrank\tnotanumber\n")

	blob, err := buildIndex(testDict(), path)
	require.NoError(t, err)

	hits := readerFor(t, blob).GetChildren("beijing", 10)
	require.Len(t, hits, 1)
	assert.Len(t, hits[0].Value, 1)
}

func TestBuildIndexSkipsUnknownIdeographs(t *testing.T) {
	path := writeRankedFile(t, "上海\t1.0\n")

	blob, err := buildIndex(testDict(), path)
	require.NoError(t, err)

	hits := readerFor(t, blob).GetChildren("shanghai", 10)
	assert.Empty(t, hits)
}

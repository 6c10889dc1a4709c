package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recs(t *testing.T) []Record {
	t.Helper()
	return []Record{
		{Key: "bei", Value: StringArray{{Name: "beijing", Rank: 0.5}}},
		{Key: "beijing", Value: StringArray{{Name: "beijing-full", Rank: 0.1}}},
		{Key: "cx", Value: StringArray{{Name: "changxing", Rank: 0.2}}},
		{Key: "yi", Value: StringArray{{Name: "甲", Rank: 0.9}, {Name: "乙", Rank: 0.1}}},
	}
}

func TestBuildAndFind(t *testing.T) {
	blob, err := Build(recs(t))
	require.NoError(t, err)

	r := NewReader()
	require.NoError(t, r.Assign(blob))

	v, ok := r.Find("bei")
	require.True(t, ok)
	assert.Equal(t, StringArray{{Name: "beijing", Rank: 0.5}}, v)

	v, ok = r.Find("yi")
	require.True(t, ok)
	assert.Equal(t, StringArray{{Name: "甲", Rank: 0.9}, {Name: "乙", Rank: 0.1}}, v)

	_, ok = r.Find("absent")
	assert.False(t, ok)
}

func TestGetChildrenPrefix(t *testing.T) {
	blob, err := Build(recs(t))
	require.NoError(t, err)

	r := NewReader()
	require.NoError(t, r.Assign(blob))

	hits := r.GetChildren("bei", 0)
	require.Len(t, hits, 2)

	byKey := map[string]StringArray{}
	for _, h := range hits {
		byKey[h.Key] = h.Value
	}
	assert.Equal(t, StringArray{{Name: "beijing", Rank: 0.5}}, byKey["bei"])
	assert.Equal(t, StringArray{{Name: "beijing-full", Rank: 0.1}}, byKey["beijing"])
}

func TestGetChildrenAbsentPrefix(t *testing.T) {
	blob, err := Build(recs(t))
	require.NoError(t, err)

	r := NewReader()
	require.NoError(t, r.Assign(blob))

	assert.Nil(t, r.GetChildren("zz", 0))
}

func TestGetChildrenMaxDepth(t *testing.T) {
	blob, err := Build(recs(t))
	require.NoError(t, err)

	r := NewReader()
	require.NoError(t, r.Assign(blob))

	hits := r.GetChildren("bei", 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "bei", hits[0].Key)
}

func TestGetChildrenEmptyPrefixIsEverything(t *testing.T) {
	records := recs(t)
	blob, err := Build(records)
	require.NoError(t, err)

	r := NewReader()
	require.NoError(t, r.Assign(blob))

	hits := r.GetChildren("", 0)
	assert.Len(t, hits, len(records))
}

func TestBuildRejectsOutOfOrder(t *testing.T) {
	_, err := Build([]Record{
		{Key: "b", Value: StringArray{{Name: "x"}}},
		{Key: "a", Value: StringArray{{Name: "y"}}},
	})
	assert.Error(t, err)
}

func TestBuildRejectsDuplicate(t *testing.T) {
	_, err := Build([]Record{
		{Key: "a", Value: StringArray{{Name: "x"}}},
		{Key: "a", Value: StringArray{{Name: "y"}}},
	})
	assert.Error(t, err)
}

func TestAssignRejectsCorruptBlob(t *testing.T) {
	r := NewReader()
	err := r.Assign([]byte("not a trie blob"))
	assert.ErrorIs(t, err, ErrCorruptBlob)
}

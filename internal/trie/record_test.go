package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayRoundTrip(t *testing.T) {
	items := StringArray{
		{Name: "北京", Rank: 0.25},
		{Name: "beijing", Rank: 1.5},
	}
	raw := EncodeStringArray(items)
	got, n, err := DecodeStringArray(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, items, got)
}

func TestStringArrayEmpty(t *testing.T) {
	raw := EncodeStringArray(nil)
	got, n, err := DecodeStringArray(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Empty(t, got)
}

func TestDecodeStringArrayTruncated(t *testing.T) {
	_, _, err := DecodeStringArray([]byte{1, 0})
	assert.Error(t, err)

	raw := EncodeStringArray(StringArray{{Name: "x", Rank: 1}})
	_, _, err = DecodeStringArray(raw[:len(raw)-2])
	assert.Error(t, err)
}

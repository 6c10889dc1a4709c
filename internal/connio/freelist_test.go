package connio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreelistGetEmptyReturnsNil(t *testing.T) {
	f := NewFreelist()
	assert.Nil(t, f.Get())
}

func TestFreelistPutAndGetRoundTrip(t *testing.T) {
	f := NewFreelist()
	c := NewConn(nil, 2)
	f.Put(c)
	assert.Equal(t, 1, f.Len())

	got := f.Get()
	require.NotNil(t, got)
	assert.Same(t, c, got)
	assert.Equal(t, 0, f.Len())
}

func TestFreelistDropsOversizeBlocks(t *testing.T) {
	f := NewFreelist()
	c := NewConn(nil, 0)
	require.True(t, c.Read.Grow(ReadHighWater*2))

	f.Put(c)
	assert.Equal(t, 0, f.Len())
}

func TestConnResetForNextCommandShrinksOversizeIdleBuffer(t *testing.T) {
	c := NewConn(nil, 0)
	require.True(t, c.Read.Grow(ReadHighWater * 2))
	c.ResetForNextCommand()
	assert.Equal(t, InitialReadSize, c.Read.Size())
}

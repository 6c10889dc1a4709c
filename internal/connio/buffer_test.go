package connio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvariant(t *testing.T, b *Buffer) {
	t.Helper()
	assert.GreaterOrEqual(t, b.Cursor(), 0)
	assert.LessOrEqual(t, b.Cursor()+b.Buffered(), b.Size())
}

func TestBufferFillAndConsume(t *testing.T) {
	b := NewBuffer(8)
	require.True(t, b.Fill([]byte("abcd")))
	assertInvariant(t, b)
	assert.Equal(t, []byte("abcd"), b.Bytes())

	b.Consume(2)
	assertInvariant(t, b)
	assert.Equal(t, []byte("cd"), b.Bytes())
}

func TestBufferResetRealignsToBase(t *testing.T) {
	b := NewBuffer(8)
	require.True(t, b.Fill([]byte("abcd")))
	b.Consume(2)
	b.Reset()
	assert.Equal(t, 0, b.Cursor())
	assert.Equal(t, []byte("cd"), b.Bytes())
}

func TestBufferGrowsByDoublingUpToBudget(t *testing.T) {
	b := NewBuffer(4)
	// 4 -> 8 -> 16 -> 32 -> 64 is exactly four doublings.
	ok := b.Grow(64)
	assert.True(t, ok)
	assert.Equal(t, 64, b.Size())
	assertInvariant(t, b)
}

func TestBufferGrowFailsBeyondDoublingBudget(t *testing.T) {
	b := NewBuffer(4)
	ok := b.Grow(1000)
	assert.False(t, ok)
	assert.Equal(t, 64, b.Size(), "a failed Grow still applies its partial doublings")
}

func TestBufferGrowMakesProgressAcrossRepeatedCalls(t *testing.T) {
	b := NewBuffer(4)
	for i := 0; i < 20 && !b.Grow(1000); i++ {
	}
	assert.GreaterOrEqual(t, b.Size(), 1000)
}

func TestBufferFillGrowsAutomatically(t *testing.T) {
	b := NewBuffer(4)
	payload := make([]byte, 10)
	for i := range payload {
		payload[i] = byte('a' + i)
	}
	require.True(t, b.Fill(payload))
	assertInvariant(t, b)
	assert.Equal(t, payload, b.Bytes())
}

func TestBufferShrinkIfOversizeWhenIdle(t *testing.T) {
	b := NewBuffer(InitialReadSize)
	require.True(t, b.Grow(16384))
	b.ShrinkIfOversize(ReadHighWater, InitialReadSize)
	assert.Equal(t, InitialReadSize, b.Size())
}

func TestBufferShrinkIfOversizePreservesUnconsumedBytes(t *testing.T) {
	b := NewBuffer(InitialReadSize)
	require.True(t, b.Grow(16384))
	// A pipelined next request's bytes, already buffered past the
	// current cursor, must survive the shrink.
	require.True(t, b.Fill([]byte("next-request")))
	b.Consume(0) // cursor stays at 0; bytes remain unconsumed

	b.ShrinkIfOversize(ReadHighWater, InitialReadSize)

	assert.Equal(t, InitialReadSize, b.Size())
	assert.Equal(t, []byte("next-request"), b.Bytes())
	assertInvariant(t, b)
}

func TestBufferShrinkSkippedWhenStillBusy(t *testing.T) {
	b := NewBuffer(InitialReadSize)
	require.True(t, b.Grow(16384))
	require.True(t, b.Fill(make([]byte, InitialReadSize+1)))
	b.ShrinkIfOversize(ReadHighWater, InitialReadSize)
	assert.Equal(t, 16384, b.Size())
}

func TestBufferOversize(t *testing.T) {
	b := NewBuffer(InitialReadSize)
	assert.False(t, b.Oversize(ReadHighWater))
	require.True(t, b.Grow(ReadHighWater*2))
	assert.True(t, b.Oversize(ReadHighWater))
}

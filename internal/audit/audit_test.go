package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAndReadAllRoundTrip(t *testing.T) {
	path := t.TempDir() + "/audit.log"
	l, err := Open(path)
	require.NoError(t, err)

	want := []Event{
		{Time: time.UnixMilli(1000), Query: "beijing", Results: 3, RemoteAddr: "127.0.0.1:1"},
		{Time: time.UnixMilli(2000), Query: "bj", Results: 0, RemoteAddr: "127.0.0.1:2"},
	}
	for _, ev := range want {
		require.NoError(t, l.Log(ev))
	}
	require.NoError(t, l.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].Query, got[i].Query)
		assert.Equal(t, want[i].Results, got[i].Results)
		assert.Equal(t, want[i].RemoteAddr, got[i].RemoteAddr)
		assert.True(t, want[i].Time.Equal(got[i].Time))
	}
}

func TestNilLoggerLogIsNoop(t *testing.T) {
	var l *Logger
	assert.NoError(t, l.Log(Event{Query: "x"}))
	assert.NoError(t, l.Close())
}

func TestOpenAppendsAcrossReopens(t *testing.T) {
	path := t.TempDir() + "/audit.log"

	l1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l1.Log(Event{Query: "first"}))
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l2.Log(Event{Query: "second"}))
	require.NoError(t, l2.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Query)
	assert.Equal(t, "second", got[1].Query)
}

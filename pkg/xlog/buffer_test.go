package xlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s := newSink()
	defer s.Close()
	require.NoError(t, s.SetOutputFile(path))

	_, err := s.Write([]byte("hello\n"))
	require.NoError(t, err)

	s.flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestSinkReopenRotatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s := newSink()
	defer s.Close()
	require.NoError(t, s.SetOutputFile(path))

	_, _ = s.Write([]byte("before\n"))
	s.flush()

	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, s.Reopen())

	_, _ = s.Write([]byte("after\n"))
	s.flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(data))
}

func TestSinkDefaultsToStderrWithoutPanicking(t *testing.T) {
	s := newSink()
	defer s.Close()
	_, err := s.Write([]byte("no file configured\n"))
	require.NoError(t, err)
	s.flush()
	time.Sleep(time.Millisecond)
}

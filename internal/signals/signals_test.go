package signals

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/internal/trie"
)

func testRegistry(t *testing.T) (*index.Registry, string) {
	t.Helper()
	records := []trie.Record{
		{Key: "beijing", Value: trie.StringArray{{Name: "北京", Rank: 1}}},
	}
	blob, err := trie.Build(records)
	require.NoError(t, err)

	path := t.TempDir() + "/index.bin"
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	r := index.NewRegistry(path, "", "")
	require.NoError(t, r.Reload(context.Background(), path))
	return r, path
}

func TestSIGUSR1TriggersReload(t *testing.T) {
	_, path := testRegistry(t)
	// A fresh registry with nothing loaded, so only the signal can
	// make it active.
	r := index.NewRegistry(path, "", "")
	require.False(t, r.Active())

	h := New(r, path, nil)
	h.Start()
	defer h.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	assert.Eventually(t, func() bool { return r.Active() }, time.Second, 10*time.Millisecond)
}

func TestSIGINTCallsOnShutdown(t *testing.T) {
	r, path := testRegistry(t)

	called := make(chan struct{})
	h := New(r, path, func() { close(called) })
	h.exit = func(int) {} // don't actually terminate the test binary
	h.Start()
	defer h.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("onShutdown was not called")
	}
}

func TestUnhandledHookSignalsDoNotPanic(t *testing.T) {
	r, path := testRegistry(t)

	h := New(r, path, nil)
	h.Start()
	defer h.Stop()

	assert.NotPanics(t, func() {
		syscall.Kill(os.Getpid(), syscall.SIGUSR2)
		syscall.Kill(os.Getpid(), syscall.SIGTTIN)
		syscall.Kill(os.Getpid(), syscall.SIGTTOU)
		time.Sleep(50 * time.Millisecond)
	})
}

// Package index owns the process-wide active trie index: a memory-mapped
// blob plus its attached reader, swapped atomically under a read/write
// lock so reload never stalls or corrupts in-flight queries.
package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pombredanne/prefix-match-server/internal/mmapfile"
	"github.com/pombredanne/prefix-match-server/internal/trie"
)

// ErrReloadBusy is returned by Reload when a reload is already in flight.
var ErrReloadBusy = errors.New("index: reload already in progress")

// Index is one immutable generation of the active index.
type Index struct {
	path   string
	mmap   *mmapfile.File
	reader *trie.Reader
}

// Path reports the source path this generation was loaded from.
func (idx *Index) Path() string { return idx.path }

// Hit is a single (name, rank) pair copied out of the trie under the
// registry's read lock, safe to use after the lock is released.
type Hit struct {
	Name string
	Rank float32
}

// Registry guards the active index behind a read/write lock: queries
// take the read side for the descent only; Reload takes the write side
// only for the pointer swap.
type Registry struct {
	mu          sync.RWMutex
	active      *Index
	reloading   int32
	defaultPath string
	s3AccessKey string
	s3SecretKey string
}

// NewRegistry returns an empty registry. defaultPath is used when Reload
// is called with an empty path (the SIGUSR1 / bare admin-reload case).
// s3AccessKey/s3SecretKey are optional static credentials for s3://
// index paths; when empty the default AWS credential chain is used.
func NewRegistry(defaultPath, s3AccessKey, s3SecretKey string) *Registry {
	return &Registry{
		defaultPath: defaultPath,
		s3AccessKey: s3AccessKey,
		s3SecretKey: s3SecretKey,
	}
}

// Active reports whether a generation has been loaded yet.
func (r *Registry) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active != nil
}

// ActivePath reports the source path of the currently active generation,
// or "" if none has loaded yet.
func (r *Registry) ActivePath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return ""
	}
	return r.active.path
}

// Reload builds a fresh generation from path (or the configured default
// when path is empty) and swaps it in. On any failure before the swap,
// the previously active generation keeps serving.
func (r *Registry) Reload(ctx context.Context, path string) error {
	if path == "" {
		path = r.defaultPath
	}
	if !atomic.CompareAndSwapInt32(&r.reloading, 0, 1) {
		return ErrReloadBusy
	}
	defer atomic.StoreInt32(&r.reloading, 0)

	localPath, cleanup, err := fetchLocal(ctx, path, r.s3AccessKey, r.s3SecretKey)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	m, err := mmapfile.Open(localPath)
	if err != nil {
		return err
	}
	reader := trie.NewReader()
	if err := reader.Assign(m.Bytes()); err != nil {
		m.Close()
		return err
	}

	next := &Index{path: path, mmap: m, reader: reader}

	r.mu.Lock()
	old := r.active
	r.active = next
	r.mu.Unlock()

	if old != nil {
		old.mmap.Close()
	}
	return nil
}

// Query fans letters out across the active trie's common-prefix descent
// and returns every hit, copied out before the read lock is released.
// A nil active index (no successful reload yet) yields no hits.
func (r *Registry) Query(letters []string, maxDepth int) []Hit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == nil {
		return nil
	}
	var hits []Hit
	for _, letter := range letters {
		for _, h := range r.active.reader.GetChildren(letter, maxDepth) {
			for _, item := range h.Value {
				hits = append(hits, Hit{Name: item.Name, Rank: item.Rank})
			}
		}
	}
	return hits
}

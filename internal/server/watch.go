package server

import (
	"context"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// Watcher polls the index file's mtime on an interval and triggers a
// registry reload when it advances. It supplements the SIGUSR1-only
// reload trigger with an operator-action-free path for deployments that
// drop a fresh index file on disk and move on.
type Watcher struct {
	registry *index.Registry
	path     string
	sched    gocron.Scheduler
	lastMod  time.Time
	metrics  *Metrics
}

// NewWatcher builds a watcher for the index file at path. path may be
// empty, in which case Start is a no-op (the server still reloads on
// SIGUSR1 or the admin endpoint).
func NewWatcher(registry *index.Registry, path string, metrics *Metrics) (*Watcher, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	w := &Watcher{registry: registry, path: path, sched: sched, metrics: metrics}
	if path != "" {
		if st, statErr := os.Stat(path); statErr == nil {
			w.lastMod = st.ModTime()
		}
	}
	return w, nil
}

// Start begins polling every interval (defaulting to 30s for a
// non-positive interval). A no-op when path is empty.
func (w *Watcher) Start(interval time.Duration) error {
	if w.path == "" {
		return nil
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if _, err := w.sched.NewJob(gocron.DurationJob(interval), gocron.NewTask(w.poll)); err != nil {
		return err
	}
	w.sched.Start()
	return nil
}

func (w *Watcher) poll() {
	st, err := os.Stat(w.path)
	if err != nil {
		xlog.Warnf("watcher: stat %q: %v", w.path, err)
		return
	}
	if !st.ModTime().After(w.lastMod) {
		return
	}
	w.lastMod = st.ModTime()
	if err := w.registry.Reload(context.Background(), w.path); err != nil {
		xlog.Warnf("watcher: reload %q: %v", w.path, err)
		return
	}
	w.metrics.ReloadCompleted()
	xlog.Notef("watcher: reloaded index from %q", w.path)
}

// Stop shuts the underlying scheduler down.
func (w *Watcher) Stop() error {
	return w.sched.Shutdown()
}

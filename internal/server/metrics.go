package server

import "sync/atomic"

// Metrics are the counters the admin surface's /metrics endpoint
// exposes via Prometheus gauges. Every recording method is nil-safe so
// callers that don't care about metrics can pass a nil *Metrics; the read
// accessors (Connections, QueriesServed, ReloadCount, BufferGrowths) are
// not, and need a non-nil *Metrics.
type Metrics struct {
	connections   int64
	queriesServed int64
	reloadCount   int64
	bufferGrowths int64
}

func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.connections, 1)
}

func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.connections, -1)
}

func (m *Metrics) QueryServed() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.queriesServed, 1)
}

func (m *Metrics) BufferGrew() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.bufferGrowths, 1)
}

func (m *Metrics) ReloadCompleted() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.reloadCount, 1)
}

// Connections reports the number of currently open connections.
func (m *Metrics) Connections() int64 { return atomic.LoadInt64(&m.connections) }

// QueriesServed reports the cumulative number of GET requests handled.
func (m *Metrics) QueriesServed() int64 { return atomic.LoadInt64(&m.queriesServed) }

// ReloadCount reports the cumulative number of successful index reloads
// recorded through ReloadCompleted, which the admin endpoint, the mtime
// watcher and the NATS bus call. SIGUSR1 reloads and the initial load at
// startup are not counted.
func (m *Metrics) ReloadCount() int64 { return atomic.LoadInt64(&m.reloadCount) }

// BufferGrowths reports the cumulative number of read-buffer doublings.
func (m *Metrics) BufferGrowths() int64 { return atomic.LoadInt64(&m.bufferGrowths) }

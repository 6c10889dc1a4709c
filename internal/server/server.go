// Package server implements the dispatcher/worker-pool serving core: a
// fixed pool of workers fed round-robin from one or more accept loops,
// each connection then run out to completion on its own goroutine.
package server

import (
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pombredanne/prefix-match-server/internal/audit"
	"github.com/pombredanne/prefix-match-server/internal/config"
	"github.com/pombredanne/prefix-match-server/internal/connio"
	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
)

type worker struct {
	id    int
	queue chan *connio.Conn
}

// Server is the composition root for the serving core: it owns the
// listeners, the connection freelist, and the worker queues that
// accepted connections are dispatched into.
type Server struct {
	cfg      config.Settings
	registry *index.Registry
	dict     *romanize.Dictionary
	freelist *connio.Freelist
	Metrics  *Metrics
	Audit    *audit.Logger

	workers    []*worker
	nextWorker uint64

	exiting int32

	mu        sync.Mutex
	listeners []net.Listener
	wg        sync.WaitGroup
}

// New builds a server querying registry and romanizing through dict,
// and starts cfg.Threads workers (at least one).
func New(cfg config.Settings, registry *index.Registry, dict *romanize.Dictionary) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		dict:     dict,
		freelist: connio.NewFreelist(),
		Metrics:  &Metrics{},
	}
	n := cfg.Threads
	if n <= 0 {
		n = 1
	}
	s.workers = make([]*worker, n)
	for i := range s.workers {
		s.workers[i] = &worker{id: i, queue: make(chan *connio.Conn, 64)}
		s.wg.Add(1)
		go s.runWorker(s.workers[i])
	}
	return s
}

func (s *Server) runWorker(w *worker) {
	defer s.wg.Done()
	for c := range w.queue {
		s.wg.Add(1)
		go func(c *connio.Conn) {
			defer s.wg.Done()
			s.serveConn(c)
		}(c)
	}
}

// ListenAndServe starts accepting on the configured TCP port and, if
// cfg.Unixpath is set, a unix domain socket too. It returns once both
// listeners are up; accepting continues on background goroutines until
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	tcpLn, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: listen tcp: %w", err)
	}
	s.startAccepting(tcpLn)

	if s.cfg.Unixpath != "" {
		os.Remove(s.cfg.Unixpath)
		unixLn, err := net.Listen("unix", s.cfg.Unixpath)
		if err != nil {
			return fmt.Errorf("server: listen unix: %w", err)
		}
		s.startAccepting(unixLn)
	}
	return nil
}

func (s *Server) startAccepting(ln net.Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, ln)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ln)
	}()
}

// Shutdown marks the server as exiting (in-flight GETs return an empty
// result immediately rather than racing a vanishing index), closes every
// listener and worker queue, and waits for connections already being
// served to finish.
func (s *Server) Shutdown() {
	atomic.StoreInt32(&s.exiting, 1)

	s.mu.Lock()
	for _, ln := range s.listeners {
		ln.Close()
	}
	s.mu.Unlock()

	for _, w := range s.workers {
		close(w.queue)
	}
	s.wg.Wait()
}

func (s *Server) isExiting() bool {
	return atomic.LoadInt32(&s.exiting) == 1
}

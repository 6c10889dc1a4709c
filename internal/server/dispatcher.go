package server

import (
	"errors"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pombredanne/prefix-match-server/internal/connio"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

const (
	emfileBackoffMin = 5 * time.Millisecond
	emfileBackoffMax = 1 * time.Second
)

// acceptLoop accepts connections off ln until it errors or the server
// starts exiting. A file-descriptor exhaustion (EMFILE/ENFILE) backs off
// exponentially instead of spinning a hot accept loop.
func (s *Server) acceptLoop(ln net.Listener) {
	backoff := emfileBackoffMin
	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.isExiting() {
				return
			}
			if isFileTableFull(err) {
				xlog.Warnf("server: accept: %v, backing off %s", err, backoff)
				time.Sleep(backoff)
				backoff *= 2
				if backoff > emfileBackoffMax {
					backoff = emfileBackoffMax
				}
				continue
			}
			xlog.Errorf("server: accept: %v", err)
			return
		}
		backoff = emfileBackoffMin
		s.dispatch(s.takeConn(nc))
	}
}

func isFileTableFull(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EMFILE) || errors.Is(opErr.Err, syscall.ENFILE)
	}
	return errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE)
}

// takeConn reuses a freelisted connection block when one is available,
// rebinding it to nc, or allocates a fresh one.
func (s *Server) takeConn(nc net.Conn) *connio.Conn {
	if c := s.freelist.Get(); c != nil {
		c.Rebind(nc, 0)
		return c
	}
	return connio.NewConn(nc, 0)
}

// dispatch hands c to the next worker in round-robin order.
func (s *Server) dispatch(c *connio.Conn) {
	idx := int(atomic.AddUint64(&s.nextWorker, 1) % uint64(len(s.workers)))
	c.Worker = idx
	s.Metrics.ConnOpened()
	s.workers[idx].queue <- c
}

package server

import (
	"errors"
	"io"
	"net"
	"runtime"

	"github.com/pombredanne/prefix-match-server/internal/connio"
	"github.com/pombredanne/prefix-match-server/internal/protocol"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// response is the decoded result of a command, before wire encoding.
type response struct {
	status uint16
	body   []byte
}

// serveConn runs one connection's state machine to completion: read a
// header, read its body, dispatch, write the reply, repeat. It never
// recurses and never blocks any other connection's goroutine, the
// coroutine-free style the original's libevent state machine earns with
// epoll; here it falls out of one goroutine per connection.
func (s *Server) serveConn(c *connio.Conn) {
	defer s.closeConn(c)

	maxReqs := s.cfg.MaxReqs
	if maxReqs <= 0 {
		maxReqs = 20
	}
	reqs := 0

	for {
		c.ResetForNextCommand()

		reqs++
		if reqs >= maxReqs {
			runtime.Gosched()
			reqs = 0
		}

		header, err := s.readHeader(c)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				xlog.Debugf("server: %s: %v", remoteAddr(c), err)
			}
			return
		}

		body, err := s.readN(c, int(header.BodyLen))
		if err != nil {
			xlog.Debugf("server: %s: read body: %v", remoteAddr(c), err)
			return
		}

		resp := s.dispatchCommand(header, body, remoteAddr(c))
		if err := s.writeResponse(c, resp); err != nil {
			xlog.Debugf("server: %s: write: %v", remoteAddr(c), err)
			return
		}
	}
}

func (s *Server) dispatchCommand(h protocol.RequestHeader, body []byte, remote string) response {
	switch h.Opcode {
	case protocol.OpGet:
		return s.handleGet(body, remote)
	default:
		xlog.Debugf("server: unknown opcode %#x", h.Opcode)
		return response{status: protocol.StatusENOMEM}
	}
}

func (s *Server) closeConn(c *connio.Conn) {
	c.NetConn.Close()
	s.Metrics.ConnClosed()
	s.freelist.Put(c)
}

// readHeader blocks until a full request header is buffered and parses
// it. A bad magic byte is a protocol error: the connection is closed.
func (s *Server) readHeader(c *connio.Conn) (protocol.RequestHeader, error) {
	raw, err := s.readN(c, protocol.HeaderLen)
	if err != nil {
		return protocol.RequestHeader{}, err
	}
	return protocol.DecodeRequestHeader(raw)
}

// readN returns exactly n bytes from c, growing its read arena (via
// connio.Buffer.Grow, doubling up to four times per call) and reading
// from the socket as many times as it takes. Each Grow call that falls
// short of n still applies its partial doubling, so the growth loop below
// makes monotonic progress and ends before the first socket read. Every
// doubling, including one made by Fill, is recorded in Metrics.
func (s *Server) readN(c *connio.Conn, n int) ([]byte, error) {
	for c.Read.Size() < n {
		before := c.Read.Size()
		c.Read.Grow(n)
		for sz := before; sz < c.Read.Size(); sz *= 2 {
			s.Metrics.BufferGrew()
		}
	}

	chunk := make([]byte, 4096)
	for c.Read.Buffered() < n {
		nn, err := c.NetConn.Read(chunk)
		if nn > 0 {
			before := c.Read.Size()
			c.Read.Fill(chunk[:nn])
			for sz := before; sz < c.Read.Size(); sz *= 2 {
				s.Metrics.BufferGrew()
			}
		}
		if err != nil {
			return nil, err
		}
	}

	data := append([]byte(nil), c.Read.Bytes()[:n]...)
	c.Read.Consume(n)
	return data, nil
}

// writeResponse encodes h as a scatter-gather write: header and body are
// handed to net.Buffers so the kernel sees them as one writev, with
// net.Buffers.WriteTo looping internally over any partial write.
func (s *Server) writeResponse(c *connio.Conn, resp response) error {
	h := protocol.ResponseHeader{Magic: protocol.ResMagic, Status: resp.status, BodyLen: uint32(len(resp.body))}
	buffers := net.Buffers{h.Encode(), resp.body}
	_, err := buffers.WriteTo(c.NetConn)
	return err
}

func remoteAddr(c *connio.Conn) string {
	if c.NetConn == nil {
		return "?"
	}
	return c.NetConn.RemoteAddr().String()
}

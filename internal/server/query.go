package server

import (
	"time"

	"github.com/pombredanne/prefix-match-server/internal/audit"
	"github.com/pombredanne/prefix-match-server/internal/protocol"
	"github.com/pombredanne/prefix-match-server/internal/query"
)

// handleGet implements the GET opcode: decode the wire body, run the
// shared lookup, encode the reply, and (when configured) append an
// audit record.
func (s *Server) handleGet(body []byte, remoteAddr string) response {
	if s.isExiting() {
		return response{status: protocol.StatusOK, body: protocol.EncodeGetResponseBody(nil)}
	}

	maxNumber, text, err := protocol.DecodeGetRequestBody(body)
	if err != nil {
		return response{status: protocol.StatusENOMEM}
	}

	names := query.Run(s.dict, s.registry, s.cfg.MaxDepth, int(maxNumber), text)
	s.Metrics.QueryServed()
	s.Audit.Log(audit.Event{Time: time.Now(), Query: text, Results: len(names), RemoteAddr: remoteAddr})
	return response{status: protocol.StatusOK, body: protocol.EncodeGetResponseBody(names)}
}

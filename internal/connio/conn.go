package connio

import "net"

// Conn is a pooled per-connection block: the network socket plus its
// read arena. Connections are handed out by a worker's dispatch queue
// and returned to the Freelist on close.
type Conn struct {
	NetConn net.Conn
	Read    *Buffer
	Worker  int
}

// NewConn wraps nc in a freshly allocated connection block bound to
// worker (the dispatcher's round-robin target).
func NewConn(nc net.Conn, worker int) *Conn {
	return &Conn{NetConn: nc, Read: NewBuffer(InitialReadSize), Worker: worker}
}

// ResetForNextCommand applies the new_cmd transition's arena upkeep:
// realign the cursor and shrink back to the initial size if the buffer
// grew oversize and is now idle.
func (c *Conn) ResetForNextCommand() {
	c.Read.Reset()
	c.Read.ShrinkIfOversize(ReadHighWater, InitialReadSize)
}

// Rebind prepares a freelisted block for reuse against a new socket.
func (c *Conn) Rebind(nc net.Conn, worker int) {
	c.NetConn = nc
	c.Worker = worker
	c.Read.curr = 0
	c.Read.bytes = 0
}

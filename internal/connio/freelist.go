package connio

import "sync"

// Freelist is a mutex-guarded stack of spare connection blocks. It grows
// by ordinary slice append (Go's own doubling) and never shrinks.
// Oversize blocks (per Buffer.Oversize) are dropped on Put rather than
// retained, so the pool's steady-state memory tracks typical, not peak,
// request sizes.
type Freelist struct {
	mu    sync.Mutex
	stack []*Conn
}

// NewFreelist returns an empty freelist.
func NewFreelist() *Freelist {
	return &Freelist{}
}

// Get pops a spare connection block, or returns nil if none are
// available.
func (f *Freelist) Get() *Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.stack)
	if n == 0 {
		return nil
	}
	c := f.stack[n-1]
	f.stack[n-1] = nil
	f.stack = f.stack[:n-1]
	return c
}

// Put returns c to the pool, unless its read buffer has grown past
// ReadHighWater, in which case it is dropped outright.
func (f *Freelist) Put(c *Conn) {
	if c.Read.Oversize(ReadHighWater) {
		return
	}
	c.NetConn = nil
	f.mu.Lock()
	f.stack = append(f.stack, c)
	f.mu.Unlock()
}

// Len reports the number of spare blocks currently held.
func (f *Freelist) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stack)
}

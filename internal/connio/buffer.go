// Package connio implements the per-connection buffer arena and
// connection freelist: growth-by-doubling on oversize reads, high-water
// shrink back to the initial size, and a mutex-guarded freelist that
// drops (rather than recycles) oversize connection blocks.
package connio

const (
	InitialReadSize = 2048

	// ReadHighWater is both the shrink threshold (§4.5) and the
	// freelist's oversize-admission cutoff: buffers that grew past it
	// are reallocated down on reuse and dropped rather than recycled
	// on close.
	ReadHighWater = 8192

	// maxDoublingsPerRead caps how many times Grow may double the
	// backing array in a single call, so a pathological bodylen cannot
	// drive an unbounded allocation loop in one read attempt.
	maxDoublingsPerRead = 4
)

// Buffer models a connection's read arena: a backing array together with
// a cursor and a count of unconsumed bytes, preserving the invariant
// curr >= 0 && curr+bytes <= len(buf).
type Buffer struct {
	buf   []byte
	curr  int
	bytes int
}

// NewBuffer allocates a buffer of the given initial size.
func NewBuffer(size int) *Buffer {
	return &Buffer{buf: make([]byte, size)}
}

// Size reports the current backing array length (rsize).
func (b *Buffer) Size() int { return len(b.buf) }

// Cursor reports the current read cursor offset (rcurr - rbuf).
func (b *Buffer) Cursor() int { return b.curr }

// Buffered reports the unconsumed byte count (rbytes).
func (b *Buffer) Buffered() int { return b.bytes }

// Bytes returns the unconsumed region. The slice aliases the backing
// array and is invalidated by the next Grow or Reset.
func (b *Buffer) Bytes() []byte { return b.buf[b.curr : b.curr+b.bytes] }

// Reset realigns the unconsumed bytes to the buffer base. Called on
// entry to the "ready for next command" state.
func (b *Buffer) Reset() {
	if b.bytes > 0 && b.curr > 0 {
		copy(b.buf, b.buf[b.curr:b.curr+b.bytes])
	}
	b.curr = 0
}

// Consume advances past n already-parsed bytes at the front of the
// unconsumed region.
func (b *Buffer) Consume(n int) {
	b.curr += n
	b.bytes -= n
}

// Grow realigns to the base and doubles the backing array up to
// maxDoublingsPerRead times. The growth is applied even when it falls
// short of need, so repeated calls make monotonic progress; the return
// value reports whether need was reached by this call. A caller that
// gets false should read more and call Grow again on the next wakeup
// rather than spin.
func (b *Buffer) Grow(need int) bool {
	b.Reset()
	if need <= len(b.buf) {
		return true
	}
	size := len(b.buf)
	for i := 0; i < maxDoublingsPerRead && size < need; i++ {
		size *= 2
	}
	grown := make([]byte, size)
	copy(grown, b.buf[:b.bytes])
	b.buf = grown
	return size >= need
}

// Fill appends p to the unconsumed region, growing first if it would not
// otherwise fit.
func (b *Buffer) Fill(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if b.curr+b.bytes+len(p) > len(b.buf) {
		if !b.Grow(b.bytes + len(p)) {
			return false
		}
	}
	end := b.curr + b.bytes
	copy(b.buf[end:], p)
	b.bytes += len(p)
	return true
}

// ShrinkIfOversize reallocates the backing array back to initialSize
// when it has grown past highWater and is currently underused. Called on
// the new_cmd transition per §4.5.
func (b *Buffer) ShrinkIfOversize(highWater, initialSize int) {
	if len(b.buf) > highWater && b.bytes < initialSize {
		shrunk := make([]byte, initialSize)
		copy(shrunk, b.buf[b.curr:b.curr+b.bytes])
		b.buf = shrunk
		b.curr = 0
	}
}

// Oversize reports whether the backing array exceeds highWater, the
// freelist's cutoff for dropping rather than recycling a connection.
func (b *Buffer) Oversize(highWater int) bool {
	return len(b.buf) > highWater
}

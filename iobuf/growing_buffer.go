// Package iobuf provides the growing read buffer shared by the TCP and
// serial transports: it accumulates bytes from the wire and hands out
// zero-copy views to the frame parsers built on top of it.
package iobuf

import "io"

const defaultCapacity = 256

// GrowingBuffer accumulates bytes read from a stream. Data already handed
// out to a parser stays valid until the next call to ReadSome, at which
// point the buffer may compact or grow.
type GrowingBuffer struct {
	buf   []byte
	start int
	end   int
}

// New creates a GrowingBuffer with the given initial capacity (0 selects a
// small default, since most ADUs are well under 256 bytes).
func New(capacity int) *GrowingBuffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &GrowingBuffer{buf: make([]byte, capacity)}
}

// Bytes returns the currently buffered, unconsumed data. The returned slice
// aliases the internal buffer and is invalidated by the next ReadSome call.
func (b *GrowingBuffer) Bytes() []byte {
	return b.buf[b.start:b.end]
}

// Len returns the number of unconsumed bytes.
func (b *GrowingBuffer) Len() int {
	return b.end - b.start
}

// Consume advances past n bytes that a parser has finished with. Only once
// every buffered byte has been consumed does the buffer reset its cursors
// to the front; this is the "compact only when the suffix is empty" rule
// that keeps outstanding zero-copy views (from the call that is currently
// in progress) intact.
func (b *GrowingBuffer) Consume(n int) {
	b.start += n
	if b.start == b.end {
		b.start = 0
		b.end = 0
	}
}

// ReadSome reads into the unfilled suffix of the buffer, growing or
// compacting first if that suffix is empty. It returns the number of bytes
// read. A zero-length read from the underlying stream is reported as
// io.ErrUnexpectedEOF, matching the contract that a conforming io.Reader
// never legitimately returns (0, nil).
func (b *GrowingBuffer) ReadSome(r io.Reader) (int, error) {
	if b.end == len(b.buf) {
		b.makeRoom()
	}
	n, err := r.Read(b.buf[b.end:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	b.end += n
	return n, nil
}

func (b *GrowingBuffer) makeRoom() {
	remaining := b.end - b.start
	if b.start > 0 {
		copy(b.buf, b.buf[b.start:b.end])
		b.start = 0
		b.end = remaining
		if b.end < len(b.buf) {
			return
		}
	}
	grown := make([]byte, len(b.buf)*2)
	copy(grown, b.buf[:b.end])
	b.buf = grown
}

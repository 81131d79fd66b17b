// Package cursor provides allocation-free read and write views over byte
// slices used by the PDU and frame codecs. Cursors never grow or copy their
// backing slice; callers size the slice up front.
package cursor

import "github.com/gomodbus/core/common"

// Read is a forward-only view over a byte slice.
type Read struct {
	data []byte
	pos  int
}

// NewRead wraps data in a Read cursor starting at position 0.
func NewRead(data []byte) *Read {
	return &Read{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Read) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read offset.
func (r *Read) Position() int {
	return r.pos
}

func (r *Read) require(n int) error {
	if r.Remaining() < n {
		return common.ErrInsufficientBytes
	}
	return nil
}

// ReadU8 consumes one byte.
func (r *Read) ReadU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16BE consumes a big-endian 16-bit value.
func (r *Read) ReadU16BE() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

// ReadBytes returns a slice view over the next n bytes. The slice aliases
// the cursor's backing array and is only valid for as long as that array is.
func (r *Read) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Write is a forward-only view over a fixed-capacity byte slice.
type Write struct {
	data []byte
	pos  int
}

// NewWrite wraps data (which must already be sized to the maximum number of
// bytes that will be written) in a Write cursor.
func NewWrite(data []byte) *Write {
	return &Write{data: data}
}

// Position returns the number of bytes written so far.
func (w *Write) Position() int {
	return w.pos
}

// Bytes returns the written prefix of the backing slice.
func (w *Write) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *Write) require(n int) error {
	if len(w.data)-w.pos < n {
		return common.ErrInsufficientBuffer
	}
	return nil
}

// WriteU8 appends one byte.
func (w *Write) WriteU8(b byte) error {
	if err := w.require(1); err != nil {
		return err
	}
	w.data[w.pos] = b
	w.pos++
	return nil
}

// WriteU16BE appends a big-endian 16-bit value.
func (w *Write) WriteU16BE(v uint16) error {
	if err := w.require(2); err != nil {
		return err
	}
	w.data[w.pos] = byte(v >> 8)
	w.data[w.pos+1] = byte(v)
	w.pos++
	w.pos++
	return nil
}

// WriteBytes appends a raw byte slice.
func (w *Write) WriteBytes(b []byte) error {
	if err := w.require(len(b)); err != nil {
		return err
	}
	copy(w.data[w.pos:], b)
	w.pos += len(b)
	return nil
}

// Skip advances the write position by n bytes without writing, reserving
// space to be back-patched later via Seek.
func (w *Write) Skip(n int) error {
	if err := w.require(n); err != nil {
		return err
	}
	w.pos += n
	return nil
}

// Seek moves the write position to an absolute offset, used to back-patch
// a header field (e.g. the MBAP length) after the body has been written.
func (w *Write) Seek(absolute int) error {
	if absolute < 0 || absolute > len(w.data) {
		return common.ErrInsufficientBuffer
	}
	w.pos = absolute
	return nil
}

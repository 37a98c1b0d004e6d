// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"encoding/binary"
	"fmt"
)

// ByteCursor is a sequential reader/writer over a byte buffer with explicit
// byte order, bounds-checked access, and position tracking. In read mode the
// backing buffer is borrowed; in write mode it is either owned and growable
// or a fixed pre-declared region that never grows.
type ByteCursor struct {
	// order decodes and encodes all multi-byte fields.
	order binary.ByteOrder
	// buf is the backing buffer; borrowed in read mode, owned in write mode.
	buf []byte
	// pos is the current cursor position in buf.
	pos int
	// fixed reports whether writes must stay inside the initial buffer length.
	fixed bool
}

// NewReadCursor returns a cursor over borrowed buf for sequential reads.
func NewReadCursor(buf []byte, order binary.ByteOrder) *ByteCursor {
	return &ByteCursor{buf: buf, order: order}
}

// NewWriteCursor returns a cursor with an owned growable buffer.
// The capacity hint preallocates the backing buffer.
func NewWriteCursor(capacity int, order binary.ByteOrder) *ByteCursor {
	if capacity < 0 {
		capacity = 0
	}

	return &ByteCursor{buf: make([]byte, 0, capacity), order: order}
}

// NewRegionCursor returns a cursor writing into a fixed size-byte region.
// Writes past the region fail with ErrRegionOverflow instead of growing.
func NewRegionCursor(size int, order binary.ByteOrder) *ByteCursor {
	if size < 0 {
		size = 0
	}

	return &ByteCursor{buf: make([]byte, size), order: order, fixed: true}
}

// Pos returns the current cursor position.
func (c *ByteCursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes between the cursor and buffer end.
func (c *ByteCursor) Remaining() int {
	if c.pos >= len(c.buf) {
		return 0
	}

	return len(c.buf) - c.pos
}

// Seek moves the cursor to an absolute offset inside the buffer.
func (c *ByteCursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		return fmt.Errorf("%w: seek to %d outside buffer of %d bytes", ErrTruncatedInput, offset, len(c.buf))
	}

	c.pos = offset
	return nil
}

// Bytes returns the backing buffer from start to its current length.
func (c *ByteCursor) Bytes() []byte {
	return c.buf
}

// ReadBytes returns the next n bytes and advances the cursor.
// The returned slice aliases the backing buffer.
func (c *ByteCursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrTruncatedInput, n)
	}

	if c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, c.pos, c.Remaining())
	}

	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// ReadUint16 reads one 16-bit unsigned integer and advances the cursor.
func (c *ByteCursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return c.order.Uint16(b), nil
}

// ReadUint32 reads one 32-bit unsigned integer and advances the cursor.
func (c *ByteCursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return c.order.Uint32(b), nil
}

// WriteBytes writes b at the current position, overwriting existing bytes
// and growing the buffer only in growable mode.
func (c *ByteCursor) WriteBytes(b []byte) error {
	end := c.pos + len(b)
	if end > len(c.buf) {
		if c.fixed {
			return fmt.Errorf("%w: %d bytes at offset %d in %d-byte region", ErrRegionOverflow, len(b), c.pos, len(c.buf))
		}

		c.buf = append(c.buf, make([]byte, end-len(c.buf))...)
	}

	copy(c.buf[c.pos:end], b)
	c.pos = end
	return nil
}

// WriteUint16 writes one 16-bit unsigned integer and advances the cursor.
func (c *ByteCursor) WriteUint16(v uint16) error {
	var b [2]byte
	c.order.PutUint16(b[:], v)
	return c.WriteBytes(b[:])
}

// WriteUint32 writes one 32-bit unsigned integer and advances the cursor.
func (c *ByteCursor) WriteUint32(v uint32) error {
	var b [4]byte
	c.order.PutUint32(b[:], v)
	return c.WriteBytes(b[:])
}

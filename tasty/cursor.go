package tasty

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Cursor is a seekable reader over an immutable byte buffer. It owns
// nothing except its current position: forking or sub-reading never
// copies the underlying buffer.
//
// TASTy naturals are unsigned LEB128 exactly like protobuf varints, so
// ReadNat delegates to
// binary.Uvarint over the remaining slice (the same primitive used by
// other_examples' heap-dump reader for its own varint-coded format); only
// the zig-zag and address/end-of-length conventions are TASTy-specific.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a Cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// CurrentAddr returns the cursor's current position as an Addr.
func (c *Cursor) CurrentAddr() Addr { return Addr(c.pos) }

// AtEnd reports whether the cursor has consumed the whole buffer.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.buf) }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Goto repositions the cursor at addr. addr must be within [0, len(buf)].
func (c *Cursor) Goto(addr Addr) {
	if int(addr) < 0 || int(addr) > len(c.buf) {
		panic(fmt.Sprintf("tasty: Goto out of range: %v (len %d)", addr, len(c.buf)))
	}
	c.pos = int(addr)
}

// NextByte peeks at the byte under the cursor without advancing.
// It returns 0 at end of buffer.
func (c *Cursor) NextByte() byte {
	if c.pos >= len(c.buf) {
		return 0
	}
	return c.buf[c.pos]
}

// ReadByte reads and advances past a single raw byte.
func (c *Cursor) ReadByte() byte {
	b := c.buf[c.pos]
	c.pos++
	return b
}

// ReadNat reads an unsigned LEB128-style variable-length natural.
func (c *Cursor) ReadNat() uint64 {
	v, n := binary.Uvarint(c.buf[c.pos:])
	if n <= 0 {
		panic("tasty: malformed natural in TASTy stream")
	}
	c.pos += n
	return v
}

// ReadLongNat is ReadNat widened for call sites that want an explicit
// 64-bit natural (e.g. literal long constants); the wire encoding is
// identical.
func (c *Cursor) ReadLongNat() uint64 { return c.ReadNat() }

// ReadInt reads a zig-zag encoded variable-length signed integer.
func (c *Cursor) ReadInt() int64 {
	u := c.ReadNat()
	return int64(u>>1) ^ -int64(u&1)
}

// ReadLongInt is ReadInt widened for 64-bit signed literals.
func (c *Cursor) ReadLongInt() int64 { return c.ReadInt() }

// ReadAddr reads a natural and interprets it as an absolute address
// relative to the start of the section (not relative to the cursor).
func (c *Cursor) ReadAddr() Addr { return Addr(c.ReadNat()) }

// ReadEnd reads a length prefix and returns the absolute end address it
// denotes, i.e. currentAddr-after-length-prefix + length.
func (c *Cursor) ReadEnd() Addr {
	length := c.ReadNat()
	return Addr(int64(c.pos) + int64(length))
}

// ReadBytes reads n raw bytes and advances past them.
func (c *Cursor) ReadBytes(n int) []byte {
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

// ReadUTF8 reads n raw bytes and returns them as a string without copying.
func (c *Cursor) ReadUTF8(n int) string {
	b := c.ReadBytes(n)
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Fork returns an independent cursor over the same buffer, positioned
// wherever the original cursor currently is. Advancing the fork never
// affects the original and vice versa.
func (c *Cursor) Fork() *Cursor {
	return &Cursor{buf: c.buf, pos: c.pos}
}

// SubReader returns a Cursor restricted to [start, end) of the same
// buffer, positioned at start.
func (c *Cursor) SubReader(start, end Addr) *Cursor {
	return &Cursor{buf: c.buf[:end], pos: int(start)}
}

// AssertAtEnd panics with a TypeError if the cursor is not exactly at end.
// Every length-prefixed read in the unpickler must leave the cursor here.
func (c *Cursor) AssertAtEnd(end Addr, what string) {
	if c.CurrentAddr() != end {
		panic(&TypeError{Msg: fmt.Sprintf("%s: expected cursor at %v, found %v", what, end, c.CurrentAddr())})
	}
}

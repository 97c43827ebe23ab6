package ase

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Cursor is a positioned reader over an immutable byte slice.
//
// All integers are little-endian. A read that cannot get all of the bytes it
// asks for fails with an error matching ErrUnexpectedEOF and leaves the
// position where it was.
type Cursor struct {
	buf []byte
	pos int

	// base is the absolute offset of buf[0], so that a sub-cursor reports
	// positions in terms of the whole file.
	base int64
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Position returns the absolute offset of the next byte to be read.
func (c *Cursor) Position() int64 {
	return c.base + int64(c.pos)
}

// Remaining returns the number of bytes left before the end of the cursor.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, errors.Wrapf(ErrUnexpectedEOF, "reading %d bytes at offset %d, %d left", n, c.Position(), c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadFixed reads a 16.16 fixed point value.
func (c *Cursor) ReadFixed() (Fixed, error) {
	v, err := c.ReadU32()
	if err != nil {
		return Fixed{}, err
	}
	return Fixed{Int: int16(v >> 16), Frac: uint16(v)}, nil
}

// ReadString reads a WORD length followed by that many bytes of UTF-8 text.
func (c *Cursor) ReadString() (string, error) {
	start := c.pos
	n, err := c.ReadU16()
	if err != nil {
		return "", errors.Wrap(err, "reading string length")
	}
	b, err := c.take(int(n))
	if err != nil {
		c.pos = start
		return "", errors.Wrap(err, "reading string")
	}
	return string(b), nil
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// Sub carves the next n bytes into a new cursor and advances c past them.
//
// The sub-cursor cannot read beyond those n bytes, whatever is consumed
// from it.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.Position()
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{buf: b, base: start}, nil
}

// fits checks that count records of at least minSize bytes each could still
// be read, before anything is allocated for them.
func (c *Cursor) fits(count uint64, minSize int) error {
	if minSize > 0 && count > uint64(c.Remaining())/uint64(minSize) {
		return errors.Wrapf(ErrUnexpectedEOF, "%d records of %d bytes at offset %d, %d left", count, minSize, c.Position(), c.Remaining())
	}
	return nil
}

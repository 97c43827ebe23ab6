package ase

// fieldReader reads a run of consecutive fields from a Cursor and keeps the
// first error. Once an error is recorded every further read is a no-op that
// returns a zero value, so a layout can be read top to bottom and checked
// once at the end.
type fieldReader struct {
	c   *Cursor
	err error
}

func newFieldReader(c *Cursor) *fieldReader {
	return &fieldReader{c: c}
}

func (r *fieldReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU8()
	r.err = err
	return v
}

func (r *fieldReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU16()
	r.err = err
	return v
}

func (r *fieldReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU32()
	r.err = err
	return v
}

func (r *fieldReader) i16() int16 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadI16()
	r.err = err
	return v
}

func (r *fieldReader) i32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadI32()
	r.err = err
	return v
}

func (r *fieldReader) fixed() Fixed {
	if r.err != nil {
		return Fixed{}
	}
	v, err := r.c.ReadFixed()
	r.err = err
	return v
}

func (r *fieldReader) str() string {
	if r.err != nil {
		return ""
	}
	v, err := r.c.ReadString()
	r.err = err
	return v
}

func (r *fieldReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	v, err := r.c.ReadBytes(n)
	r.err = err
	return v
}

func (r *fieldReader) skip(n int) {
	if r.err != nil {
		return
	}
	r.err = r.c.Skip(n)
}

// fits records an error if count records of minSize bytes cannot follow.
func (r *fieldReader) fits(count uint64, minSize int) bool {
	if r.err != nil {
		return false
	}
	r.err = r.c.fits(count, minSize)
	return r.err == nil
}

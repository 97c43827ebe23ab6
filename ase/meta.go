package ase

func decodeColorProfile(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	p := &ColorProfileChunk{}
	r := newFieldReader(c)
	p.ProfileType = r.u16()
	p.Flags = r.u16()
	p.Gamma = r.fixed()
	r.skip(8)
	if p.ProfileType == ProfileICC {
		n := r.u32()
		if r.fits(uint64(n), 1) {
			p.ICC = r.bytes(int(n))
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func decodeExternalFiles(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	r := newFieldReader(c)
	n := r.u32()
	r.skip(8)
	// id, reserved, and at least the string length
	if !r.fits(uint64(n), 14) {
		return nil, r.err
	}
	e := &ExternalFilesChunk{Files: make([]ExternalFile, n)}
	for i := range e.Files {
		e.Files[i].ID = r.u32()
		r.skip(8)
		e.Files[i].Name = r.str()
	}
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

func decodeMask(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	m := &MaskChunk{}
	r := newFieldReader(c)
	m.X = r.i16()
	m.Y = r.i16()
	m.Width = r.u16()
	m.Height = r.u16()
	r.skip(8)
	m.Name = r.str()
	m.Bitmap = r.bytes(int(m.Height) * ((int(m.Width) + 7) / 8))
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

func decodePath(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	return &PathChunk{}, nil
}

func decodeTags(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	r := newFieldReader(c)
	n := r.u16()
	r.skip(8)
	if !r.fits(uint64(n), 19) {
		return nil, r.err
	}
	t := &TagsChunk{Tags: make([]Tag, n)}
	for i := range t.Tags {
		tag := &t.Tags[i]
		tag.From = r.u16()
		tag.To = r.u16()
		tag.Direction = LoopDirection(r.u8())
		tag.Repeat = r.u16()
		r.skip(6)
		tag.Color = RGB{R: r.u8(), G: r.u8(), B: r.u8()}
		r.skip(1)
		tag.Name = r.str()
	}
	if r.err != nil {
		return nil, r.err
	}
	return t, nil
}

func decodeUserData(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	u := &UserDataChunk{}
	r := newFieldReader(c)
	u.Flags = r.u32()
	switch {
	case u.HasText():
		u.Text = r.str()
	case u.HasColor():
		u.Color = RGBA{R: r.u8(), G: r.u8(), B: r.u8(), A: r.u8()}
	}
	if r.err != nil {
		return nil, r.err
	}
	return u, nil
}

func decodeSlice(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	s := &SliceChunk{}
	r := newFieldReader(c)
	n := r.u32()
	s.Flags = r.u32()
	r.skip(4)
	s.Name = r.str()
	if !r.fits(uint64(n), 20) {
		return nil, r.err
	}
	s.Keys = make([]SliceKey, n)
	for i := range s.Keys {
		k := &s.Keys[i]
		k.Frame = r.u32()
		k.X = r.i32()
		k.Y = r.i32()
		k.Width = r.u32()
		k.Height = r.u32()
		switch {
		case s.Flags&Slice9Patch != 0:
			k.Center = &SliceCenter{X: r.i32(), Y: r.i32(), Width: r.u32(), Height: r.u32()}
		case s.Flags&SliceHasPivot != 0:
			k.Pivot = &SlicePivot{X: r.i32(), Y: r.i32()}
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

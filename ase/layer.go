package ase

const uuidSize = 16

func decodeLayer(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	l := &LayerChunk{}
	r := newFieldReader(c)
	l.Flags = r.u16()
	l.LayerType = LayerType(r.u16())
	l.ChildLevel = r.u16()
	l.DefaultWidth = r.u16()
	l.DefaultHeight = r.u16()
	l.BlendMode = r.u16()
	l.Opacity = r.u8()
	r.skip(3)
	l.Name = r.str()
	if l.LayerType == LayerTilemap {
		l.TilesetIndex = r.u32()
	}
	if ctx.HeaderFlags&FlagLayersHaveUUID != 0 {
		l.UUID = r.bytes(uuidSize)
	}
	if r.err != nil {
		return nil, r.err
	}
	return l, nil
}

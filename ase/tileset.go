package ase

import (
	"github.com/pkg/errors"
)

func decodeTileset(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	t := &TilesetChunk{}
	r := newFieldReader(c)
	t.ID = r.u32()
	t.Flags = r.u32()
	t.TileCount = r.u32()
	t.TileWidth = r.u16()
	t.TileHeight = r.u16()
	t.BaseIndex = r.i16()
	r.skip(14)
	t.Name = r.str()
	if t.Flags&TilesetExternal != 0 {
		t.ExternalFileID = r.u32()
		t.ExternalTilesetID = r.u32()
	}
	if t.Flags&TilesetEmbedded == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return t, nil
	}

	n := r.u32()
	if !r.fits(uint64(n), 1) {
		return nil, r.err
	}
	blob := r.bytes(int(n))
	if r.err != nil {
		return nil, r.err
	}
	data, err := decompress(ctx, blob)
	if err != nil {
		return nil, err
	}
	if ctx.BytesPerPixel == 0 || len(data)%ctx.BytesPerPixel != 0 {
		return nil, errors.Wrapf(ErrPixelDataSize, "tileset %d: %d bytes at %d bytes per pixel", t.ID, len(data), ctx.BytesPerPixel)
	}
	t.Pixels = Pixels{BytesPerPixel: ctx.BytesPerPixel, Data: data}
	return t, nil
}

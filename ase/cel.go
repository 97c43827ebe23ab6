package ase

import (
	"github.com/pkg/errors"
)

const tileSize = 4

func decodeCel(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	cel := &CelChunk{}
	r := newFieldReader(c)
	cel.LayerIndex = r.u16()
	cel.X = r.i16()
	cel.Y = r.i16()
	cel.Opacity = r.u8()
	cel.CelType = CelType(r.u16())
	r.skip(7)
	if r.err != nil {
		return nil, r.err
	}

	switch cel.CelType {
	case CelRaw:
		cel.Width = r.u16()
		cel.Height = r.u16()
		n := uint64(cel.Width) * uint64(cel.Height)
		if !r.fits(n, ctx.BytesPerPixel) {
			return nil, r.err
		}
		cel.Pixels = Pixels{
			BytesPerPixel: ctx.BytesPerPixel,
			Data:          r.bytes(int(n) * ctx.BytesPerPixel),
		}

	case CelLinked:
		cel.FramePosition = r.u16()

	case CelCompressed:
		cel.Width = r.u16()
		cel.Height = r.u16()
		blob := r.bytes(c.Remaining())
		if r.err != nil {
			return nil, r.err
		}
		data, err := decompress(ctx, blob)
		if err != nil {
			return nil, err
		}
		want := int(cel.Width) * int(cel.Height) * ctx.BytesPerPixel
		if len(data) != want {
			return nil, errors.Wrapf(ErrPixelDataSize, "%dx%d cel: got %d bytes, want %d", cel.Width, cel.Height, len(data), want)
		}
		cel.Pixels = Pixels{BytesPerPixel: ctx.BytesPerPixel, Data: data}

	case CelCompressedTilemap:
		cel.Width = r.u16()
		cel.Height = r.u16()
		cel.BitsPerTile = r.u16()
		cel.TileIDMask = r.u32()
		cel.FlipXMask = r.u32()
		cel.FlipYMask = r.u32()
		cel.RotationMask = r.u32()
		r.skip(10)
		blob := r.bytes(c.Remaining())
		if r.err != nil {
			return nil, r.err
		}
		data, err := decompress(ctx, blob)
		if err != nil {
			return nil, err
		}
		n := int(cel.Width) * int(cel.Height)
		if len(data) != n*tileSize {
			return nil, errors.Wrapf(ErrPixelDataSize, "%dx%d tilemap: got %d bytes, want %d", cel.Width, cel.Height, len(data), n*tileSize)
		}
		cel.Tiles = make([]Tile, n)
		tc := NewCursor(data)
		for i := range cel.Tiles {
			v, err := tc.ReadU32()
			if err != nil {
				return nil, err
			}
			cel.Tiles[i] = Tile(v)
		}

	default:
		return nil, errors.Wrapf(ErrUnsupportedCelType, "cel type %d", cel.CelType)
	}

	if r.err != nil {
		return nil, r.err
	}
	return cel, nil
}

// TileAt returns the tile at column x, row y of a tilemap cel.
func (c *CelChunk) TileAt(x, y int) Tile {
	return c.Tiles[y*int(c.Width)+x]
}

// TileID masks the flags out of t.
func (c *CelChunk) TileID(t Tile) uint32 {
	return uint32(t) & c.TileIDMask
}

func decodeCelExtra(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	e := &CelExtraChunk{}
	r := newFieldReader(c)
	e.Flags = r.u32()
	e.X = r.fixed()
	e.Y = r.fixed()
	e.Width = r.fixed()
	e.Height = r.fixed()
	r.skip(16)
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

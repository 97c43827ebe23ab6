package ase

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// enc builds little-endian test input.
type enc struct {
	b []byte
}

func (e *enc) u8(v uint8) *enc {
	e.b = append(e.b, v)
	return e
}

func (e *enc) u16(v uint16) *enc {
	e.b = binary.LittleEndian.AppendUint16(e.b, v)
	return e
}

func (e *enc) u32(v uint32) *enc {
	e.b = binary.LittleEndian.AppendUint32(e.b, v)
	return e
}

func (e *enc) i16(v int16) *enc { return e.u16(uint16(v)) }
func (e *enc) i32(v int32) *enc { return e.u32(uint32(v)) }

func (e *enc) fixed(f Fixed) *enc {
	return e.u32(uint32(uint16(f.Int))<<16 | uint32(f.Frac))
}

func (e *enc) str(s string) *enc {
	e.u16(uint16(len(s)))
	e.b = append(e.b, s...)
	return e
}

func (e *enc) raw(b []byte) *enc {
	e.b = append(e.b, b...)
	return e
}

// zero writes n reserved bytes. They are filled with 0xEE so that a decoder
// that reads them instead of skipping shows up as a mismatch.
func (e *enc) zero(n int) *enc {
	for i := 0; i < n; i++ {
		e.b = append(e.b, 0xEE)
	}
	return e
}

func deflate(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	return buf.Bytes()
}

// encodeFile lays out a header followed by already encoded frames. FileSize
// and Frames are filled in; the header that was written is returned.
func encodeFile(h FileHeader, frames ...[]byte) ([]byte, FileHeader) {
	size := HeaderSize
	for _, f := range frames {
		size += len(f)
	}
	h.FileSize = uint32(size)
	h.Frames = uint16(len(frames))

	e := &enc{}
	e.u32(h.FileSize).u16(fileMagic)
	e.u16(h.Frames).u16(h.Width).u16(h.Height).u16(h.ColorDepth)
	e.u32(h.Flags).u16(h.Speed).zero(8)
	e.u8(h.TransparentIndex).zero(3)
	e.u16(h.NumColors).u8(h.PixelWidth).u8(h.PixelHeight)
	e.i16(h.GridX).i16(h.GridY).u16(h.GridWidth).u16(h.GridHeight)
	e.zero(84)
	for _, f := range frames {
		e.raw(f)
	}
	return e.b, h
}

// encodeFrame writes a frame whose legacy and modern counts both hold the
// number of chunks.
func encodeFrame(durationMs uint16, chunks ...[]byte) []byte {
	return encodeFrameCounts(durationMs, uint16(len(chunks)), uint32(len(chunks)), chunks...)
}

func encodeFrameCounts(durationMs uint16, legacy uint16, modern uint32, chunks ...[]byte) []byte {
	size := frameHeaderSize
	for _, c := range chunks {
		size += len(c)
	}
	e := &enc{}
	e.u32(uint32(size)).u16(frameMagic).u16(legacy).u16(durationMs).zero(2).u32(modern)
	for _, c := range chunks {
		e.raw(c)
	}
	return e.b
}

func encodeChunk(t ChunkType, payload []byte) []byte {
	e := &enc{}
	return e.u32(uint32(len(payload) + chunkHeaderSize)).u16(uint16(t)).raw(payload).b
}

// encodeKnown encodes any of the decodable chunk values. Cel and tileset
// pixels are deflated when their layout calls for it.
func encodeKnown(t *testing.T, ch Chunk, ctx DecodeContext) []byte {
	t.Helper()
	e := &enc{}
	switch c := ch.(type) {
	case *OldPalette256Chunk:
		encodeOldPalette(e, c.Packets)
	case *OldPalette64Chunk:
		encodeOldPalette(e, c.Packets)
	case *LayerChunk:
		e.u16(c.Flags).u16(uint16(c.LayerType)).u16(c.ChildLevel)
		e.u16(c.DefaultWidth).u16(c.DefaultHeight).u16(c.BlendMode).u8(c.Opacity).zero(3).str(c.Name)
		if c.LayerType == LayerTilemap {
			e.u32(c.TilesetIndex)
		}
		if ctx.HeaderFlags&FlagLayersHaveUUID != 0 {
			e.raw(c.UUID)
		}
	case *CelChunk:
		e.u16(c.LayerIndex).i16(c.X).i16(c.Y).u8(c.Opacity).u16(uint16(c.CelType)).zero(7)
		switch c.CelType {
		case CelRaw:
			e.u16(c.Width).u16(c.Height).raw(c.Pixels.Data)
		case CelLinked:
			e.u16(c.FramePosition)
		case CelCompressed:
			e.u16(c.Width).u16(c.Height).raw(deflate(t, c.Pixels.Data))
		case CelCompressedTilemap:
			e.u16(c.Width).u16(c.Height).u16(c.BitsPerTile)
			e.u32(c.TileIDMask).u32(c.FlipXMask).u32(c.FlipYMask).u32(c.RotationMask).zero(10)
			tiles := &enc{}
			for _, tile := range c.Tiles {
				tiles.u32(uint32(tile))
			}
			e.raw(deflate(t, tiles.b))
		}
	case *CelExtraChunk:
		e.u32(c.Flags).fixed(c.X).fixed(c.Y).fixed(c.Width).fixed(c.Height).zero(16)
	case *ColorProfileChunk:
		e.u16(c.ProfileType).u16(c.Flags).fixed(c.Gamma).zero(8)
		if c.ProfileType == ProfileICC {
			e.u32(uint32(len(c.ICC))).raw(c.ICC)
		}
	case *ExternalFilesChunk:
		e.u32(uint32(len(c.Files))).zero(8)
		for _, f := range c.Files {
			e.u32(f.ID).zero(8).str(f.Name)
		}
	case *MaskChunk:
		e.i16(c.X).i16(c.Y).u16(c.Width).u16(c.Height).zero(8).str(c.Name).raw(c.Bitmap)
	case *PathChunk:
	case *TagsChunk:
		e.u16(uint16(len(c.Tags))).zero(8)
		for _, tag := range c.Tags {
			e.u16(tag.From).u16(tag.To).u8(uint8(tag.Direction)).u16(tag.Repeat).zero(6)
			e.u8(tag.Color.R).u8(tag.Color.G).u8(tag.Color.B).zero(1).str(tag.Name)
		}
	case *PaletteChunk:
		e.u32(c.Size).u32(c.First).u32(c.Last).zero(8)
		for _, p := range c.Entries {
			e.u16(p.Flags).u8(p.Color.R).u8(p.Color.G).u8(p.Color.B).u8(p.Color.A)
			if p.HasName() {
				e.str(p.Name)
			}
		}
	case *UserDataChunk:
		e.u32(c.Flags)
		switch {
		case c.HasText():
			e.str(c.Text)
		case c.HasColor():
			e.u8(c.Color.R).u8(c.Color.G).u8(c.Color.B).u8(c.Color.A)
		}
	case *SliceChunk:
		e.u32(uint32(len(c.Keys))).u32(c.Flags).zero(4).str(c.Name)
		for _, k := range c.Keys {
			e.u32(k.Frame).i32(k.X).i32(k.Y).u32(k.Width).u32(k.Height)
			if k.Center != nil {
				e.i32(k.Center.X).i32(k.Center.Y).u32(k.Center.Width).u32(k.Center.Height)
			}
			if k.Pivot != nil {
				e.i32(k.Pivot.X).i32(k.Pivot.Y)
			}
		}
	case *TilesetChunk:
		e.u32(c.ID).u32(c.Flags).u32(c.TileCount).u16(c.TileWidth).u16(c.TileHeight).i16(c.BaseIndex).zero(14).str(c.Name)
		if c.Flags&TilesetExternal != 0 {
			e.u32(c.ExternalFileID).u32(c.ExternalTilesetID)
		}
		if c.Flags&TilesetEmbedded != 0 {
			z := deflate(t, c.Pixels.Data)
			e.u32(uint32(len(z))).raw(z)
		}
	case *UnknownChunk:
		e.raw(c.Data)
	default:
		t.Fatalf("cannot encode %T", ch)
	}
	return encodeChunk(ch.Type(), e.b)
}

func encodeOldPalette(e *enc, packets []OldPalettePacket) {
	e.u16(uint16(len(packets)))
	for _, p := range packets {
		n := len(p.Colors)
		if n == 256 {
			n = 0
		}
		e.u8(p.Skip).u8(uint8(n))
		for _, c := range p.Colors {
			e.u8(c.R).u8(c.G).u8(c.B)
		}
	}
}

package ase

import (
	"github.com/pkg/errors"
)

func decodeOldPalette256(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	packets, err := decodeOldPalettePackets(c)
	if err != nil {
		return nil, err
	}
	return &OldPalette256Chunk{Packets: packets}, nil
}

func decodeOldPalette64(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	packets, err := decodeOldPalettePackets(c)
	if err != nil {
		return nil, err
	}
	return &OldPalette64Chunk{Packets: packets}, nil
}

func decodeOldPalettePackets(c *Cursor) ([]OldPalettePacket, error) {
	r := newFieldReader(c)
	n := r.u16()
	if !r.fits(uint64(n), 2) {
		return nil, r.err
	}
	packets := make([]OldPalettePacket, n)
	for i := range packets {
		packets[i].Skip = r.u8()
		count := int(r.u8())
		if count == 0 {
			count = 256
		}
		if !r.fits(uint64(count), 3) {
			return nil, r.err
		}
		colors := make([]RGB, count)
		for j := range colors {
			colors[j] = RGB{R: r.u8(), G: r.u8(), B: r.u8()}
		}
		packets[i].Colors = colors
	}
	if r.err != nil {
		return nil, r.err
	}
	return packets, nil
}

func decodePalette(c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	p := &PaletteChunk{}
	r := newFieldReader(c)
	p.Size = r.u32()
	p.First = r.u32()
	p.Last = r.u32()
	r.skip(8)
	if r.err != nil {
		return nil, r.err
	}
	if p.Last < p.First {
		return nil, errors.Wrapf(ErrInvalidPaletteRange, "first %d, last %d", p.First, p.Last)
	}

	n := uint64(p.Last) - uint64(p.First) + 1
	if !r.fits(n, 6) {
		return nil, r.err
	}
	p.Entries = make([]PaletteEntry, n)
	for i := range p.Entries {
		e := &p.Entries[i]
		e.Flags = r.u16()
		e.Color = RGBA{R: r.u8(), G: r.u8(), B: r.u8(), A: r.u8()}
		if e.HasName() {
			e.Name = r.str()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

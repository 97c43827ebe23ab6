package ase

import (
	"image/color"
	"time"
)

// Layers returns the layer chunks in file order; the slice index is the
// layer index cels refer to.
func (d *Document) Layers() []*LayerChunk {
	var out []*LayerChunk
	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			if l, ok := ch.(*LayerChunk); ok {
				out = append(out, l)
			}
		}
	}
	return out
}

// Tags returns every tag of the sprite.
func (d *Document) Tags() []Tag {
	var out []Tag
	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			if t, ok := ch.(*TagsChunk); ok {
				out = append(out, t.Tags...)
			}
		}
	}
	return out
}

func (d *Document) Slices() []*SliceChunk {
	var out []*SliceChunk
	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			if s, ok := ch.(*SliceChunk); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// Tileset returns the tileset with the given id, or nil.
func (d *Document) Tileset(id uint32) *TilesetChunk {
	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			if t, ok := ch.(*TilesetChunk); ok && t.ID == id {
				return t
			}
		}
	}
	return nil
}

// CelsOf returns the cels of frame i in file order.
func (d *Document) CelsOf(i int) []*CelChunk {
	if i < 0 || i >= len(d.Frames) {
		return nil
	}
	var out []*CelChunk
	for _, ch := range d.Frames[i].Chunks {
		if c, ok := ch.(*CelChunk); ok {
			out = append(out, c)
		}
	}
	return out
}

// Cel returns the cel of layer in frame i, following a linked cel to the
// frame it points at. It returns nil if the layer has no cel there.
func (d *Document) Cel(i int, layer int) *CelChunk {
	// A chain of links cannot be longer than the number of frames.
	for hops := 0; hops <= len(d.Frames); hops++ {
		var found *CelChunk
		for _, c := range d.CelsOf(i) {
			if int(c.LayerIndex) == layer {
				found = c
				break
			}
		}
		if found == nil || found.CelType != CelLinked {
			return found
		}
		if int(found.FramePosition) == i {
			return nil
		}
		i = int(found.FramePosition)
	}
	return nil
}

// UserDataFor returns the user data attached to chunk k of frame i, which is
// the UserDataChunk right after it, or nil.
func (d *Document) UserDataFor(i, k int) *UserDataChunk {
	if i < 0 || i >= len(d.Frames) {
		return nil
	}
	chunks := d.Frames[i].Chunks
	if k < 0 || k+1 >= len(chunks) {
		return nil
	}
	u, _ := chunks[k+1].(*UserDataChunk)
	return u
}

// Duration is the length of one pass over all frames.
func (d *Document) Duration() time.Duration {
	var total time.Duration
	for _, f := range d.Frames {
		total += f.Duration
	}
	return total
}

// maxPaletteSize bounds how far chunks may grow a palette whose header
// declares fewer colors. Indices beyond the bound are ignored.
const maxPaletteSize = 256

// Palette builds the sprite palette. Palette chunks take precedence over old
// palette chunks, which are only used if no palette chunk exists. Entries
// that no chunk sets are opaque black.
func (d *Document) Palette() color.Palette {
	pal := make(color.Palette, d.Header.PaletteSize())
	for i := range pal {
		pal[i] = color.NRGBA{A: 0xff}
	}
	limit := max(len(pal), maxPaletteSize)
	set := func(i int, c color.Color) {
		if i < 0 || i >= limit {
			return
		}
		if i >= len(pal) {
			grown := make(color.Palette, i+1)
			copy(grown, pal)
			for j := len(pal); j < i; j++ {
				grown[j] = color.NRGBA{A: 0xff}
			}
			pal = grown
		}
		pal[i] = c
	}

	var sawNew bool
	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			if p, ok := ch.(*PaletteChunk); ok {
				sawNew = true
				for j, e := range p.Entries {
					set(int(p.First)+j, color.NRGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: e.Color.A})
				}
			}
		}
	}
	if sawNew {
		return pal
	}

	for _, f := range d.Frames {
		for _, ch := range f.Chunks {
			switch p := ch.(type) {
			case *OldPalette256Chunk:
				applyOldPalette(p.Packets, 1, set)
			case *OldPalette64Chunk:
				applyOldPalette(p.Packets, 4, set)
			}
		}
	}
	return pal
}

func applyOldPalette(packets []OldPalettePacket, scale int, set func(int, color.Color)) {
	i := 0
	for _, p := range packets {
		i += int(p.Skip)
		for _, c := range p.Colors {
			set(i, color.NRGBA{R: scaleComponent(c.R, scale), G: scaleComponent(c.G, scale), B: scaleComponent(c.B, scale), A: 0xff})
			i++
		}
	}
}

func scaleComponent(v uint8, scale int) uint8 {
	s := int(v) * scale
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}

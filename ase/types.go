package ase

import "fmt"

// Fixed is a 16.16 fixed point number as stored in the file. It is kept as
// read; no normalization happens.
type Fixed struct {
	Int  int16
	Frac uint16
}

func (f Fixed) Float64() float64 {
	return float64(int32(f.Int)<<16|int32(f.Frac)) / 65536
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}

// Pixel is a single pixel; its length is the file's bytes per pixel.
//
// RGBA pixels are R, G, B, A. Grayscale pixels are value, alpha. Indexed
// pixels are one palette index.
type Pixel []byte

// Pixels is a row-major run of pixels stored back to back.
type Pixels struct {
	BytesPerPixel int
	Data          []byte
}

// Len returns the number of pixels.
func (p Pixels) Len() int {
	if p.BytesPerPixel == 0 {
		return 0
	}
	return len(p.Data) / p.BytesPerPixel
}

// At returns pixel i. The returned slice aliases Data.
func (p Pixels) At(i int) Pixel {
	off := i * p.BytesPerPixel
	return Pixel(p.Data[off : off+p.BytesPerPixel : off+p.BytesPerPixel])
}

// Tile is a tilemap entry: a tile index in the low bits plus flip and
// rotation flags, split by the masks stored with the cel.
type Tile uint32

// RGB is a color without alpha, as used by old palettes and tags.
type RGB struct {
	R, G, B uint8
}

// RGBA is a color with alpha.
type RGBA struct {
	R, G, B, A uint8
}

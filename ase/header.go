package ase

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	fileMagic  = 0xA5E0
	HeaderSize = 128
)

// Color depths, in bits per pixel.
const (
	DepthIndexed   = 8
	DepthGrayscale = 16
	DepthRGBA      = 32
)

// Header flags.
const (
	FlagLayerOpacityValid = 1
	FlagGroupOpacityValid = 2
	FlagLayersHaveUUID    = 4
)

// FileHeader is the 128 byte header at the start of every file.
type FileHeader struct {
	FileSize   uint32
	Frames     uint16
	Width      uint16
	Height     uint16
	ColorDepth uint16
	Flags      uint32

	// Speed is the deprecated global frame delay in milliseconds. Frame
	// durations take precedence.
	Speed uint16

	// TransparentIndex is the palette entry that is transparent in
	// non-background layers. Only meaningful for indexed sprites.
	TransparentIndex uint8

	// NumColors is the palette size; 0 in old files means 256.
	NumColors uint16

	PixelWidth  uint8
	PixelHeight uint8

	GridX      int16
	GridY      int16
	GridWidth  uint16
	GridHeight uint16
}

// BytesPerPixel derives the pixel size from the color depth.
func (h FileHeader) BytesPerPixel() int {
	return int(h.ColorDepth) / 8
}

// PaletteSize returns the number of palette entries.
func (h FileHeader) PaletteSize() int {
	if h.NumColors == 0 {
		return 256
	}
	return int(h.NumColors)
}

// PixelRatio returns the pixel aspect ratio as "w:h"; 0 in either field
// means square pixels.
func (h FileHeader) PixelRatio() string {
	if h.PixelWidth == 0 || h.PixelHeight == 0 {
		return "1:1"
	}
	return fmt.Sprintf("%d:%d", h.PixelWidth, h.PixelHeight)
}

func (h FileHeader) LayerOpacityValid() bool {
	return h.Flags&FlagLayerOpacityValid != 0
}

func (h FileHeader) LayersHaveUUID() bool {
	return h.Flags&FlagLayersHaveUUID != 0
}

// DecodeContext carries what chunk decoders need to know about the file as
// a whole. It is built once from the header and never changed afterwards.
type DecodeContext struct {
	BytesPerPixel int
	HeaderFlags   uint32
	Decompress    Decompressor
}

func newDecodeContext(h FileHeader, d Decompressor) DecodeContext {
	return DecodeContext{
		BytesPerPixel: h.BytesPerPixel(),
		HeaderFlags:   h.Flags,
		Decompress:    d,
	}
}

func decodeHeader(c *Cursor) (FileHeader, error) {
	var h FileHeader
	r := newFieldReader(c)

	h.FileSize = r.u32()
	magic := r.u16()
	if r.err != nil {
		return h, truncated(ErrTruncatedHeader, r.err)
	}
	if magic != fileMagic {
		return h, errors.Wrapf(ErrBadFileMagic, "got %#04x, want %#04x", magic, fileMagic)
	}

	h.Frames = r.u16()
	h.Width = r.u16()
	h.Height = r.u16()
	h.ColorDepth = r.u16()
	h.Flags = r.u32()
	h.Speed = r.u16()
	r.skip(8)
	h.TransparentIndex = r.u8()
	r.skip(3)
	h.NumColors = r.u16()
	h.PixelWidth = r.u8()
	h.PixelHeight = r.u8()
	h.GridX = r.i16()
	h.GridY = r.i16()
	h.GridWidth = r.u16()
	h.GridHeight = r.u16()
	r.skip(84)
	if r.err != nil {
		return h, truncated(ErrTruncatedHeader, r.err)
	}

	switch h.ColorDepth {
	case DepthIndexed, DepthGrayscale, DepthRGBA:
	default:
		return h, errors.Wrapf(ErrBadColorDepth, "%d bits per pixel", h.ColorDepth)
	}
	return h, nil
}

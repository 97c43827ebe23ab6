package ase

// This file turns decoded cels into image.Image values and hooks the format
// into the image package, so image.Decode handles .aseprite files.

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/pkg/errors"
)

func init() {
	// File size, then 0xA5E0 little-endian.
	image.RegisterFormat("aseprite", "????\xE0\xA5", DecodeImage, DecodeConfig)
}

// DecodeImage decodes a file and returns its first frame composited.
func DecodeImage(r io.Reader) (image.Image, error) {
	doc, err := Decode(r, nil)
	if err != nil {
		return nil, err
	}
	if len(doc.Frames) == 0 {
		return image.NewRGBA(doc.Bounds()), nil
	}
	return Composite(doc, 0)
}

// DecodeConfig reads the header only.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Bounds is the canvas rectangle.
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(d.Header.Width), int(d.Header.Height))
}

// CelImage converts the pixels of a cel into an image placed at the cel's
// canvas position. Indexed cels become *image.Paletted, everything else
// *image.NRGBA. Linked cels have no pixels of their own; resolve them with
// Document.Cel first.
func CelImage(d *Document, c *CelChunk) (image.Image, error) {
	rect := image.Rect(int(c.X), int(c.Y), int(c.X)+int(c.Width), int(c.Y)+int(c.Height))
	layers := d.Layers()
	var layer *LayerChunk
	if int(c.LayerIndex) < len(layers) {
		layer = layers[c.LayerIndex]
	}

	switch c.CelType {
	case CelLinked:
		return nil, errors.Errorf("linked cel on layer %d has no pixels of its own", c.LayerIndex)
	case CelCompressedTilemap:
		if layer == nil {
			return nil, errors.Errorf("tilemap cel refers to missing layer %d", c.LayerIndex)
		}
		return tilemapImage(d, c, layer, rect)
	}

	pal := d.celPalette(layer)
	if d.Header.ColorDepth == DepthIndexed {
		img := image.NewPaletted(rect, pal)
		copy(img.Pix, c.Pixels.Data)
		return img, nil
	}
	img := image.NewNRGBA(rect)
	fillNRGBA(img, c.Pixels, int(c.Width), pal)
	return img, nil
}

// celPalette is the document palette with the transparent index cleared,
// except on background layers.
func (d *Document) celPalette(layer *LayerChunk) color.Palette {
	pal := d.Palette()
	if layer != nil && layer.Flags&LayerBackground != 0 {
		return pal
	}
	if ti := int(d.Header.TransparentIndex); ti < len(pal) {
		pal[ti] = color.NRGBA{}
	}
	return pal
}

// fillNRGBA writes px, width pixels per row, into img starting at its
// top-left corner.
func fillNRGBA(img *image.NRGBA, px Pixels, width int, pal color.Palette) {
	if width == 0 {
		return
	}
	b := img.Bounds()
	for i := 0; i < px.Len(); i++ {
		img.SetNRGBA(b.Min.X+i%width, b.Min.Y+i/width, pixelColor(px.At(i), pal))
	}
}

func pixelColor(p Pixel, pal color.Palette) color.NRGBA {
	switch len(p) {
	case 4:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	case 2:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
	case 1:
		if int(p[0]) < len(pal) {
			return color.NRGBAModel.Convert(pal[p[0]]).(color.NRGBA)
		}
	}
	return color.NRGBA{}
}

// tilemapImage paints every tile of a tilemap cel from its layer's tileset.
// Flip and rotation bits are ignored.
func tilemapImage(d *Document, c *CelChunk, layer *LayerChunk, rect image.Rectangle) (image.Image, error) {
	ts := d.Tileset(layer.TilesetIndex)
	if ts == nil {
		return nil, errors.Errorf("layer %q uses missing tileset %d", layer.Name, layer.TilesetIndex)
	}
	tw, th := int(ts.TileWidth), int(ts.TileHeight)
	perTile := tw * th
	pal := d.celPalette(layer)

	img := image.NewNRGBA(image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+int(c.Width)*tw, rect.Min.Y+int(c.Height)*th))
	for ty := 0; ty < int(c.Height); ty++ {
		for tx := 0; tx < int(c.Width); tx++ {
			id := int(c.TileID(c.TileAt(tx, ty)))
			if id == 0 || (id+1)*perTile > ts.Pixels.Len() {
				continue
			}
			for py := 0; py < th; py++ {
				for px := 0; px < tw; px++ {
					col := pixelColor(ts.Pixels.At(id*perTile+py*tw+px), pal)
					img.SetNRGBA(rect.Min.X+tx*tw+px, rect.Min.Y+ty*th+py, col)
				}
			}
		}
	}
	return img, nil
}

// layersShown reports, per layer index, whether the layer and every group
// containing it are visible.
func layersShown(layers []*LayerChunk) []bool {
	out := make([]bool, len(layers))
	var groups []bool
	for i, l := range layers {
		lvl := int(l.ChildLevel)
		if lvl > len(groups) {
			lvl = len(groups)
		}
		parent := true
		if lvl > 0 {
			parent = groups[lvl-1]
		}
		out[i] = parent && l.Visible()
		groups = append(groups[:lvl], out[i])
	}
	return out
}

// Composite draws frame i: the cels of all visible image layers, bottom
// layer first, with cel and layer opacity applied. Blend modes other than
// normal are drawn as normal.
func Composite(d *Document, i int) (*image.RGBA, error) {
	if i < 0 || i >= len(d.Frames) {
		return nil, errors.Errorf("frame %d out of range, have %d", i, len(d.Frames))
	}
	dst := image.NewRGBA(d.Bounds())
	layers := d.Layers()
	shown := layersShown(layers)
	for li, l := range layers {
		if !shown[li] || l.Reference() || l.LayerType == LayerGroup {
			continue
		}
		cel := d.Cel(i, li)
		if cel == nil {
			continue
		}
		src, err := CelImage(d, cel)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d layer %d", i, li)
		}
		opacity := int(cel.Opacity)
		if d.Header.LayerOpacityValid() {
			opacity = opacity * int(l.Opacity) / 0xff
		}
		mask := image.NewUniform(color.Alpha{A: uint8(opacity)})
		draw.DrawMask(dst, src.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	}
	return dst, nil
}

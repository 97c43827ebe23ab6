// Package render turns decoded sprites into finished images: single
// frames, sprite sheets, thumbnails and animated GIFs.
package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-aseprite/ase"
)

// Frame composites frame i of doc.
func Frame(doc *ase.Document, i int) (*image.RGBA, error) {
	return ase.Composite(doc, i)
}

// Frames composites every frame of doc.
func Frames(doc *ase.Document) ([]*image.RGBA, error) {
	out := make([]*image.RGBA, len(doc.Frames))
	for i := range doc.Frames {
		img, err := ase.Composite(doc, i)
		if err != nil {
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}

// Sheet is a sprite sheet: all frames on one image, left to right, top to
// bottom.
type Sheet struct {
	Image  *image.RGBA
	Frames []image.Rectangle
}

// Atlas lays the frames of doc out in a grid of cols columns. With cols <= 0
// the grid is as close to square as possible.
func Atlas(doc *ase.Document, cols int) (*Sheet, error) {
	n := len(doc.Frames)
	if n == 0 {
		return nil, errors.New("sprite has no frames")
	}
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	fw, fh := int(doc.Header.Width), int(doc.Header.Height)
	sheet := &Sheet{
		Image:  image.NewRGBA(image.Rect(0, 0, cols*fw, rows*fh)),
		Frames: make([]image.Rectangle, n),
	}
	for i := 0; i < n; i++ {
		img, err := ase.Composite(doc, i)
		if err != nil {
			return nil, err
		}
		r := image.Rect(0, 0, fw, fh).Add(image.Pt((i%cols)*fw, (i/cols)*fh))
		draw.Draw(sheet.Image, r, img, image.Point{}, draw.Src)
		sheet.Frames[i] = r
	}
	return sheet, nil
}

// Thumbnail scales img down to fit within maxW x maxH, keeping its aspect
// ratio. Images that already fit are returned as they are.
func Thumbnail(img image.Image, maxW, maxH uint) image.Image {
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}

// Scale enlarges img by an integer factor without smoothing, which is what
// pixel art wants.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	s := img.Bounds().Size()
	return resize.Resize(uint(s.X*factor), uint(s.Y*factor), img, resize.NearestNeighbor)
}

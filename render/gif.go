package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-aseprite/ase"
)

// TagFrames lists the frame indices a tag plays, in play order, for one
// pass through the tag.
func TagFrames(tag ase.Tag) []int {
	var fwd []int
	for i := int(tag.From); i <= int(tag.To); i++ {
		fwd = append(fwd, i)
	}
	rev := make([]int, len(fwd))
	for i, f := range fwd {
		rev[len(fwd)-1-i] = f
	}

	switch tag.Direction {
	case ase.LoopReverse:
		return rev
	case ase.LoopPingPong:
		if len(fwd) > 1 {
			return append(fwd, rev[1:len(rev)-1]...)
		}
		return fwd
	case ase.LoopPingPongReverse:
		if len(rev) > 1 {
			return append(rev, fwd[1:len(fwd)-1]...)
		}
		return rev
	}
	return fwd
}

// FindTag returns the tag named name.
func FindTag(doc *ase.Document, name string) (ase.Tag, bool) {
	for _, t := range doc.Tags() {
		if t.Name == name {
			return t, true
		}
	}
	return ase.Tag{}, false
}

// GIFOptions select what GIF renders.
type GIFOptions struct {
	// Tag limits the animation to the named tag. Empty means all frames.
	Tag string

	// Scale enlarges each frame by an integer factor.
	Scale int
}

// GIF renders the animation of doc. Every frame gets its own palette of up
// to 255 colors plus a transparent entry at index 0.
func GIF(doc *ase.Document, opts GIFOptions) (*gif.GIF, error) {
	order := make([]int, len(doc.Frames))
	for i := range order {
		order[i] = i
	}
	if opts.Tag != "" {
		tag, ok := FindTag(doc, opts.Tag)
		if !ok {
			return nil, errors.Errorf("no tag named %q", opts.Tag)
		}
		if int(tag.To) >= len(doc.Frames) || tag.From > tag.To {
			return nil, errors.Errorf("tag %q covers frames %d-%d, have %d", tag.Name, tag.From, tag.To, len(doc.Frames))
		}
		order = TagFrames(tag)
	}
	if len(order) == 0 {
		return nil, errors.New("nothing to animate")
	}

	g := &gif.GIF{}
	q := quantize.MedianCutQuantizer{}
	frames := make(map[int]*image.Paletted)
	for _, i := range order {
		if p, ok := frames[i]; ok {
			g.Image = append(g.Image, p)
		} else {
			img, err := ase.Composite(doc, i)
			if err != nil {
				return nil, err
			}
			src := Scale(img, opts.Scale)

			pal := append(color.Palette{color.Transparent}, q.Quantize(make(color.Palette, 0, 255), src)...)
			p = image.NewPaletted(src.Bounds(), pal)
			draw.Draw(p, p.Bounds(), src, src.Bounds().Min, draw.Over)
			frames[i] = p
			g.Image = append(g.Image, p)
		}
		g.Delay = append(g.Delay, centiseconds(doc.Frames[i].Duration))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0
	glog.V(2).Infof("gif: %d frames, %d distinct", len(g.Image), len(frames))
	return g, nil
}

func centiseconds(d time.Duration) int {
	cs := int(d / (10 * time.Millisecond))
	if cs < 1 {
		return 1
	}
	return cs
}

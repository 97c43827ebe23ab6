package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bradfitz/iter"
	"github.com/common-nighthawk/go-figure"
	"github.com/dustin/go-humanize"
	"github.com/gookit/color"

	"badc0de.net/pkg/go-aseprite/ase"
)

func banner(w io.Writer, title string) {
	fmt.Fprint(w, figure.NewFigure(title, "small", true).String())
	fmt.Fprintln(w)
}

// dump lists the header and every chunk accepted by f.
func dump(w io.Writer, size int64, doc *ase.Document, f *chunkFilter) error {
	h := doc.Header
	fmt.Fprintf(w, "%s %s, %dx%d, %d bpp, %d frames, %v total\n",
		color.Cyan.Sprint("file:"), humanize.Bytes(uint64(size)),
		h.Width, h.Height, h.ColorDepth, len(doc.Frames), doc.Duration())
	fmt.Fprintf(w, "%s %d colors, transparent index %d, pixel ratio %s, grid %dx%d at %d,%d\n",
		color.Cyan.Sprint("palette:"), h.PaletteSize(), h.TransparentIndex, h.PixelRatio(),
		h.GridWidth, h.GridHeight, h.GridX, h.GridY)

	for i := range iter.N(len(doc.Frames)) {
		fr := doc.Frames[i]
		fmt.Fprintf(w, "%s %d: %s, %v, %d chunks\n",
			color.Yellow.Sprint("frame"), i, humanize.Bytes(uint64(fr.Size)), fr.Duration, len(fr.Chunks))
		for k, ch := range fr.Chunks {
			ok, err := f.Match(i, k, ch)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %3d %s %s\n", k, color.Green.Sprintf("%-14s", ch.Type()), describe(ch))
		}
	}
	return nil
}

func describe(ch ase.Chunk) string {
	switch c := ch.(type) {
	case *ase.OldPalette256Chunk:
		return fmt.Sprintf("%d packets", len(c.Packets))
	case *ase.OldPalette64Chunk:
		return fmt.Sprintf("%d packets", len(c.Packets))
	case *ase.LayerChunk:
		vis := "visible"
		if !c.Visible() {
			vis = color.Red.Sprint("hidden")
		}
		return fmt.Sprintf("%s%q type=%d %s opacity=%d blend=%d",
			strings.Repeat("  ", int(c.ChildLevel)), c.Name, c.LayerType, vis, c.Opacity, c.BlendMode)
	case *ase.CelChunk:
		switch c.CelType {
		case ase.CelLinked:
			return fmt.Sprintf("layer=%d linked to frame %d", c.LayerIndex, c.FramePosition)
		case ase.CelCompressedTilemap:
			return fmt.Sprintf("layer=%d at %d,%d %dx%d tiles, %d bits per tile",
				c.LayerIndex, c.X, c.Y, c.Width, c.Height, c.BitsPerTile)
		}
		return fmt.Sprintf("layer=%d at %d,%d %dx%d opacity=%d, %s of pixels",
			c.LayerIndex, c.X, c.Y, c.Width, c.Height, c.Opacity, humanize.Bytes(uint64(len(c.Pixels.Data))))
	case *ase.CelExtraChunk:
		return fmt.Sprintf("bounds %.2f,%.2f %.2fx%.2f", c.X.Float64(), c.Y.Float64(), c.Width.Float64(), c.Height.Float64())
	case *ase.ColorProfileChunk:
		return fmt.Sprintf("profile=%d gamma=%.2f icc=%s", c.ProfileType, c.Gamma.Float64(), humanize.Bytes(uint64(len(c.ICC))))
	case *ase.ExternalFilesChunk:
		names := make([]string, len(c.Files))
		for i, f := range c.Files {
			names[i] = fmt.Sprintf("%d:%s", f.ID, f.Name)
		}
		return strings.Join(names, " ")
	case *ase.MaskChunk:
		return fmt.Sprintf("%q at %d,%d %dx%d", c.Name, c.X, c.Y, c.Width, c.Height)
	case *ase.TagsChunk:
		tags := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			tags[i] = fmt.Sprintf("%q %d-%d %s", t.Name, t.From, t.To, t.Direction)
		}
		return strings.Join(tags, ", ")
	case *ase.PaletteChunk:
		return fmt.Sprintf("size=%d entries %d-%d", c.Size, c.First, c.Last)
	case *ase.UserDataChunk:
		switch {
		case c.HasText():
			return fmt.Sprintf("text %q", c.Text)
		case c.HasColor():
			return fmt.Sprintf("color #%02x%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B, c.Color.A)
		}
		return ""
	case *ase.SliceChunk:
		return fmt.Sprintf("%q, %d keys", c.Name, len(c.Keys))
	case *ase.TilesetChunk:
		return fmt.Sprintf("%q id=%d, %d tiles of %dx%d", c.Name, c.ID, c.TileCount, c.TileWidth, c.TileHeight)
	case *ase.UnknownChunk:
		return humanize.Bytes(uint64(len(c.Data)))
	}
	return ""
}

// Command aseprint prints an Aseprite sprite on the terminal: a chunk by
// chunk dump of the file, a frame as colored blocks or inline image, or
// both.
//
//	aseprint -sprite hero -dump -where "type == 'Cel'"
//	aseprint -sprite https://example.com/hero.aseprite -frame 2 -iterm
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-aseprite/ase"
	"badc0de.net/pkg/go-aseprite/paths"
	"badc0de.net/pkg/go-aseprite/render"
)

var (
	spritePath string

	frame    = flag.Int("frame", 0, "frame to print")
	all      = flag.Bool("all", false, "print every frame instead of just -frame")
	doDump   = flag.Bool("dump", false, "list the chunks of the file")
	where    = flag.String("where", "", "with -dump, only list chunks matching this expression, e.g. \"type == 'Cel' && layer == 0\"")
	noImage  = flag.Bool("noimage", false, "do not print the image")
	sheet    = flag.Bool("sheet", false, "print all frames as one sprite sheet")
	scale    = flag.Int("scale", 1, "enlarge the image by this factor before printing")
	col      = flag.Bool("col", true, "whether to use colors at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with the best inline image protocol the terminal supports")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", false, "whether to shrink the image to fit the terminal")
	title    = flag.Bool("banner", true, "with -dump, print the sprite name in large letters first")
)

func load(name string) (*ase.Document, int64, error) {
	f, err := paths.Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	doc, err := ase.Decode(f, nil)
	return doc, size, err
}

func run(w io.Writer) error {
	if spritePath == "" && flag.NArg() > 0 {
		spritePath = flag.Arg(0)
	}
	if spritePath == "" {
		return fmt.Errorf("no sprite given; use -sprite or pass a file name")
	}
	doc, size, err := load(spritePath)
	if err != nil {
		return err
	}

	if *doDump {
		filter, err := newChunkFilter(*where)
		if err != nil {
			return err
		}
		if *title {
			banner(w, path.Base(spritePath))
		}
		if err := dump(w, size, doc, filter); err != nil {
			return err
		}
	}
	if *noImage {
		return nil
	}

	switch {
	case *sheet:
		s, err := render.Atlas(doc, 0)
		if err != nil {
			return err
		}
		return out(w, render.Scale(s.Image, *scale))
	case *all:
		for i := range doc.Frames {
			if err := printFrame(w, doc, i); err != nil {
				return err
			}
		}
		return nil
	}
	return printFrame(w, doc, *frame)
}

func printFrame(w io.Writer, doc *ase.Document, i int) error {
	img, err := render.Frame(doc, i)
	if err != nil {
		return err
	}
	return out(w, render.Scale(img, *scale))
}

func main() {
	paths.SetupFilePathFlag("sprite.aseprite", "sprite", &spritePath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if err := run(os.Stdout); err != nil {
		glog.Exitf("aseprint: %v", err)
	}
}

package main

import (
	"image"
	"io"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-aseprite/imageprint"
)

func out(w io.Writer, img image.Image) error {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
				// Inline images are measured in pixels, block output in cells.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
			} else {
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.NearestNeighbor)
			}
		} else {
			glog.V(1).Infof("terminal size unknown: %v", err)
		}
	}

	switch {
	case *rasterm:
		ok, err := imageprint.PrintRasTerm(w, img)
		if err != nil || ok {
			return err
		}
		glog.V(1).Info("no inline image support detected, falling back to colored blocks")
		imageprint.Print24bit(w, img, *blanks)
	case !*col:
		imageprint.PrintNoColor(w, img, *blanks)
	case *iterm:
		return imageprint.PrintITerm(w, img, "frame.png", true)
	case *col256:
		imageprint.Print256Color(w, img, *blanks)
	default:
		imageprint.Print24bit(w, img, *blanks)
	}
	return nil
}

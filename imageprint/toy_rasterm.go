//go:build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image with whichever inline image protocol the
// terminal speaks: kitty, iTerm2 or sixel. It reports false if none.
func PrintRasTerm(w io.Writer, i image.Image) (bool, error) {
	if rasterm.IsTermKitty() {
		err := rasterm.Settings{}.KittyWriteImage(w, i)
		fmt.Fprint(w, "\n")
		return true, err
	}
	if rasterm.IsTermItermWez() {
		err := rasterm.Settings{}.ItermWriteImage(w, i)
		fmt.Fprint(w, "\n")
		return true, err
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		err := rasterm.Settings{}.SixelWriteImage(w, Quantize(i, 64))
		fmt.Fprint(w, "\n")
		return true, err
	}
	return false, nil
}

// Quantize reduces i to at most n colors with a median cut.
func Quantize(i image.Image, n int) *image.Paletted {
	palettedImage := image.NewPaletted(i.Bounds(), nil)
	quantizer := gogif.MedianCutQuantizer{NumColor: n}
	quantizer.Quantize(palettedImage, i.Bounds(), i, i.Bounds().Min)
	return palettedImage
}

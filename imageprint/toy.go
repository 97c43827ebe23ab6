// Package imageprint prints images on terminal.
//
// Each pixel becomes two character cells. Color comes from 24 bit escape
// sequences, the xterm 256 color palette, or is left out entirely; terminals
// that understand inline images (iTerm2, kitty, sixel) get the real picture.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}

type writerDumper struct {
	w io.Writer
}

func (d writerDumper) Printf(s string, arg ...interface{}) {
	fmt.Fprintf(d.w, s, arg...)
}

// rgbDumper picks the closest xterm 256 color for every Printf.
type rgbDumper struct {
	w   io.Writer
	col color.RGBColor
}

func (d rgbDumper) Printf(s string, arg ...interface{}) {
	fmt.Fprint(d.w, d.col.Sprintf(s, arg...))
}

type mode int

const (
	modeTrueColor mode = iota
	mode256
	modeNoColor
)

func shade(w io.Writer, col ic.Color, m mode, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprint(w, "\x1b[0m  ")
		return
	}
	// Undo premultiplication so translucent pixels keep their hue.
	n := ic.NRGBAModel.Convert(col).(ic.NRGBA)

	var d dumper = writerDumper{w}
	switch m {
	case modeTrueColor:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm", n.R, n.G, n.B)
	case mode256:
		d = rgbDumper{w, color.RGB(n.R, n.G, n.B, true)}
	}
	if blanks {
		d.Printf("  ")
	} else {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			d.Printf("..")
		case a < 64:
			d.Printf("--")
		case a < 128:
			d.Printf("==")
		default:
			d.Printf("##")
		}
	}
	if m == modeTrueColor {
		fmt.Fprint(w, "\x1b[0m")
	}
}

func printImage(w io.Writer, i image.Image, m mode, blanks bool) {
	b := i.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(w, i.At(x, y), m, blanks)
		}
		if m != modeNoColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, mode256, blanks)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, modeTrueColor, blanks)
}

// PrintNoColor draws an image without using color escape sequences. Only
// makes sense with blanks=false.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, modeNoColor, blanks)
}

// PrintITerm draws an image using iTerm2's escape sequences. It does
// nothing on other terminals unless force is set.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string, force bool) error {
	if !force && !isTermItermWez() {
		return nil
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	if err := bEnc.Close(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}

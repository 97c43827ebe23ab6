//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

// TermSize is the terminal size in cells and, where the terminal reports
// it, in pixels.
type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

func GetTermSize() (TermSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err == nil {
		defer f.Close()
		sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
		if err == nil {
			if sz.Xpixel == 0 && sz.Ypixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
				if w, h, ok := kittyPixelSize(f); ok {
					sz.Xpixel, sz.Ypixel = w, h
				}
			}
			return TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}, nil
		}
	}
	w, h, err := terminal.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
}

// kittyPixelSize asks the terminal for its size in pixels with CSI 14 t.
// The reply is read without a timeout.
func kittyPixelSize(tty *os.File) (w, h uint16, ok bool) {
	state, err := terminal.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer terminal.Restore(int(tty.Fd()), state)

	fmt.Fprint(tty, "\033[14t")
	s, err := bufio.NewReader(tty).ReadString('t')
	if err != nil {
		return 0, 0, false
	}
	m := kittySizeReply.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0, false
	}
	height, errH := strconv.Atoi(m[1])
	width, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0, false
	}
	return uint16(width), uint16(height), true
}

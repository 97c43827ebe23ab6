// Package ttesting holds small assertion helpers shared by tests. Each
// assertion runs as a named subtest so failures read well in -v output.
package ttesting

import (
	"cmp"
	"image"
	"testing"

	"github.com/pkg/errors"
)

func AssertEqual[T comparable](t *testing.T, name string, got, want T) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertInRange[T cmp.Ordered](t *testing.T, name string, got, wantMin, wantMax T) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %v; want [%v,%v]", got, wantMin, wantMax)
		}
	})
}

// AssertErrorIs checks that err matches target with errors.Is.
func AssertErrorIs(t *testing.T, name string, err, target error) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if !errors.Is(err, target) {
			t.Errorf("got error %v; want one matching %v", err, target)
		}
	})
}

// AssertImageSize checks the dimensions of img.
func AssertImageSize(t *testing.T, name string, img image.Image, wantW, wantH int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if img == nil {
			t.Fatalf("got nil image; want %dx%d", wantW, wantH)
		}
		if s := img.Bounds().Size(); s.X != wantW || s.Y != wantH {
			t.Errorf("got %dx%d; want %dx%d", s.X, s.Y, wantW, wantH)
		}
	})
}

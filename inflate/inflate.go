// Package inflate expands the zlib streams that hold compressed cel and
// tileset pixels.
package inflate

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// DefaultLimit caps the output of Zlib. No canvas the editor can save
// comes close to it.
const DefaultLimit = 1 << 30

// Zlib inflates a zlib stream, up to DefaultLimit bytes.
func Zlib(compressed []byte) ([]byte, error) {
	return inflate(compressed, DefaultLimit)
}

// Limited returns a zlib inflater that fails once the output would grow
// past limit bytes.
func Limited(limit int64) func([]byte) ([]byte, error) {
	return func(compressed []byte) ([]byte, error) {
		return inflate(compressed, limit)
	}
}

func inflate(compressed []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrap(err, "opening zlib stream")
	}
	defer zr.Close()

	var out bytes.Buffer
	n, err := io.Copy(&out, io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "inflating")
	}
	if n > limit {
		return nil, errors.Errorf("inflated data exceeds %d bytes", limit)
	}
	return out.Bytes(), nil
}

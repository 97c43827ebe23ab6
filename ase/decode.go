package ase

import (
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-aseprite/inflate"
)

// Decompressor expands a compressed cel or tileset payload.
type Decompressor func(compressed []byte) ([]byte, error)

// Options tune Decode. A nil *Options is the same as the zero value.
type Options struct {
	// Decompress defaults to inflate.Zlib.
	Decompress Decompressor
}

func (o *Options) decompressor() Decompressor {
	if o == nil || o.Decompress == nil {
		return inflate.Zlib
	}
	return o.Decompress
}

// Document is a fully decoded file.
type Document struct {
	Header FileHeader
	Frames []Frame
}

// Decode reads all of r and decodes it. Either the complete document or a
// *DecodeError is returned.
func Decode(r io.Reader, opts *Options) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Stage: StageHeader, Err: errors.Wrap(err, "reading input")}
	}
	return DecodeBytes(b, opts)
}

// DecodeBytes decodes a whole file held in memory. b is not retained.
func DecodeBytes(b []byte, opts *Options) (*Document, error) {
	c := NewCursor(b)
	h, err := decodeHeader(c)
	if err != nil {
		return nil, &DecodeError{Stage: StageHeader, Err: err}
	}
	ctx := newDecodeContext(h, opts.decompressor())
	glog.V(1).Infof("header: %dx%d, %d bpp, %d frames, flags %#x", h.Width, h.Height, h.ColorDepth, h.Frames, h.Flags)

	if err := c.fits(uint64(h.Frames), frameHeaderSize); err != nil {
		return nil, &DecodeError{Stage: StageFrame, Offset: c.Position(), Err: errors.Wrapf(err, "%d frames declared", h.Frames)}
	}
	doc := &Document{Header: h, Frames: make([]Frame, h.Frames)}
	for i := range doc.Frames {
		start := c.Position()
		f, err := decodeFrame(c, i, ctx)
		if err != nil {
			return nil, err
		}
		if pad := start + int64(f.Size) - c.Position(); pad > 0 {
			if pad > int64(c.Remaining()) {
				glog.Warningf("frame %d: declared size %d runs %d bytes past the end of the file", i, f.Size, pad-int64(c.Remaining()))
			} else {
				glog.V(2).Infof("frame %d: skipping %d bytes up to its declared size", i, pad)
				c.Skip(int(pad))
			}
		}
		doc.Frames[i] = f
	}
	return doc, nil
}

// DecodeHeader reads only the 128 byte file header from r.
func DecodeHeader(r io.Reader) (FileHeader, error) {
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return FileHeader{}, &DecodeError{Stage: StageHeader, Err: truncated(ErrTruncatedHeader, err)}
	}
	h, err := decodeHeader(NewCursor(b))
	if err != nil {
		return h, &DecodeError{Stage: StageHeader, Err: err}
	}
	return h, nil
}

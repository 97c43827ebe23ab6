package ase

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	frameMagic      = 0xF1FA
	frameHeaderSize = 16
	chunkHeaderSize = 6

	// legacyCountOverflow in the old chunk count field means the real count
	// is in the new one.
	legacyCountOverflow = 0xFFFF
)

// Frame is one animation frame with its chunks in file order.
type Frame struct {
	Size     uint32
	Duration time.Duration
	Chunks   []Chunk
}

// resolveChunkCount picks the number of chunks in a frame. The legacy count
// wins unless it holds the overflow marker.
func resolveChunkCount(legacy uint16, modern uint32) uint32 {
	if legacy == legacyCountOverflow {
		return modern
	}
	return uint32(legacy)
}

// decodeFrame reads the frame at c's position. idx is only used to label
// errors and log lines.
func decodeFrame(c *Cursor, idx int, ctx DecodeContext) (Frame, error) {
	var f Frame
	start := c.Position()
	frameErr := func(err error) error {
		return &DecodeError{Stage: StageFrame, Frame: idx, Offset: start, Err: err}
	}

	r := newFieldReader(c)
	f.Size = r.u32()
	magic := r.u16()
	legacy := r.u16()
	duration := r.u16()
	r.skip(2)
	modern := r.u32()
	if r.err != nil {
		return f, frameErr(r.err)
	}
	if magic != frameMagic {
		return f, frameErr(errors.Wrapf(ErrBadFrameMagic, "got %#04x, want %#04x", magic, frameMagic))
	}
	f.Duration = time.Duration(duration) * time.Millisecond

	n := resolveChunkCount(legacy, modern)
	if glog.V(2) {
		glog.Infof("frame %d at %#x: %d bytes, %d chunks (legacy %d, modern %d), %v", idx, start, f.Size, n, legacy, modern, f.Duration)
	}
	if err := c.fits(uint64(n), chunkHeaderSize); err != nil {
		return f, frameErr(errors.Wrapf(err, "%d chunks declared", n))
	}

	f.Chunks = make([]Chunk, n)
	for i := range f.Chunks {
		chunkStart := c.Position()
		chunkErr := func(t ChunkType, err error) error {
			return &DecodeError{Stage: StageChunk, Frame: idx, Chunk: i, Type: t, Offset: chunkStart, Err: err}
		}

		cr := newFieldReader(c)
		size := cr.u32()
		t := ChunkType(cr.u16())
		if cr.err != nil {
			return f, chunkErr(t, truncated(ErrTruncatedChunk, cr.err))
		}
		if size < chunkHeaderSize {
			return f, chunkErr(t, errors.Wrapf(ErrBadChunkSize, "declared size %d", size))
		}
		payload := int64(size) - chunkHeaderSize
		if payload > int64(c.Remaining()) {
			return f, chunkErr(t, truncated(ErrTruncatedChunk,
				errors.Wrapf(ErrUnexpectedEOF, "declared size %d, %d bytes left", size, c.Remaining())))
		}

		sub, err := c.Sub(int(payload))
		if err != nil {
			return f, chunkErr(t, truncated(ErrTruncatedChunk, err))
		}
		if glog.V(3) {
			glog.Infof("frame %d chunk %d: %v, %d bytes at %#x", idx, i, t, size, chunkStart)
		}
		if !t.Known() {
			glog.Warningf("frame %d chunk %d: unknown chunk type %#04x, keeping %d bytes", idx, i, uint16(t), payload)
		}

		chunk, err := decodeChunk(t, sub, int(payload), ctx)
		if err != nil {
			return f, chunkErr(t, truncated(ErrTruncatedChunk, err))
		}
		if left := sub.Remaining(); left > 0 && glog.V(3) {
			glog.Infof("frame %d chunk %d: %d trailing bytes skipped", idx, i, left)
		}
		f.Chunks[i] = chunk
	}
	return f, nil
}

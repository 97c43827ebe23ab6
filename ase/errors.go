package ase

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEOF means the input ended before a value could be read
	// in full.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF

	ErrBadFileMagic        = errors.New("bad file magic")
	ErrBadFrameMagic       = errors.New("bad frame magic")
	ErrBadColorDepth       = errors.New("unsupported color depth")
	ErrBadChunkSize        = errors.New("chunk size smaller than chunk header")
	ErrUnsupportedCelType  = errors.New("unsupported cel type")
	ErrTruncatedHeader     = errors.New("truncated header")
	ErrTruncatedChunk      = errors.New("truncated chunk")
	ErrInvalidPaletteRange = errors.New("invalid palette range")
	ErrPixelDataSize       = errors.New("pixel data size mismatch")
	ErrDecompress          = errors.New("decompression failed")
)

// Stage identifies the part of the file a DecodeError happened in.
type Stage int

const (
	StageHeader Stage = iota
	StageFrame
	StageChunk
)

func (s Stage) String() string {
	switch s {
	case StageHeader:
		return "header"
	case StageFrame:
		return "frame"
	case StageChunk:
		return "chunk"
	}
	return fmt.Sprintf("stage %d", int(s))
}

// DecodeError is returned for every decode failure. It names where in the
// file decoding stopped; Err holds the reason and can be matched against the
// Err* values with errors.Is.
type DecodeError struct {
	Stage Stage

	// Frame and Chunk are zero-based indices. Chunk and Type are only set
	// for StageChunk.
	Frame int
	Chunk int
	Type  ChunkType

	// Offset is the absolute file offset of the header, frame or chunk.
	Offset int64

	Err error
}

func (e *DecodeError) Error() string {
	switch e.Stage {
	case StageHeader:
		return fmt.Sprintf("ase: header: %v", e.Err)
	case StageFrame:
		return fmt.Sprintf("ase: frame %d at offset %#x: %v", e.Frame, e.Offset, e.Err)
	default:
		return fmt.Sprintf("ase: frame %d chunk %d (%v) at offset %#x: %v", e.Frame, e.Chunk, e.Type, e.Offset, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// truncatedError marks an end-of-input failure as belonging to a header or
// chunk, while still matching ErrUnexpectedEOF.
type truncatedError struct {
	kind  error
	cause error
}

func (e *truncatedError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *truncatedError) Is(target error) bool {
	return target == e.kind
}

func (e *truncatedError) Unwrap() error {
	return e.cause
}

func truncated(kind, err error) error {
	if errors.Is(err, ErrUnexpectedEOF) {
		return &truncatedError{kind: kind, cause: err}
	}
	return err
}

package ase

import (
	"github.com/pkg/errors"
)

// chunkDecoder decodes the payload of one chunk. c is bounded to the
// chunk's declared payload, size bytes long.
type chunkDecoder func(c *Cursor, size int, ctx DecodeContext) (Chunk, error)

var chunkDecoders = map[ChunkType]chunkDecoder{
	ChunkOldPalette256: decodeOldPalette256,
	ChunkOldPalette64:  decodeOldPalette64,
	ChunkLayer:         decodeLayer,
	ChunkCel:           decodeCel,
	ChunkCelExtra:      decodeCelExtra,
	ChunkColorProfile:  decodeColorProfile,
	ChunkExternalFiles: decodeExternalFiles,
	ChunkMask:          decodeMask,
	ChunkPath:          decodePath,
	ChunkTags:          decodeTags,
	ChunkPalette:       decodePalette,
	ChunkUserData:      decodeUserData,
	ChunkSlice:         decodeSlice,
	ChunkTileset:       decodeTileset,
}

// decodeChunk dispatches on t. Types without a decoder keep their payload
// as an *UnknownChunk.
func decodeChunk(t ChunkType, c *Cursor, size int, ctx DecodeContext) (Chunk, error) {
	dec, ok := chunkDecoders[t]
	if !ok {
		data, err := c.ReadBytes(size)
		if err != nil {
			return nil, err
		}
		return &UnknownChunk{ChunkType: t, Data: data}, nil
	}
	return dec(c, size, ctx)
}

// decompress runs ctx.Decompress over a compressed payload.
func decompress(ctx DecodeContext, b []byte) ([]byte, error) {
	if ctx.Decompress == nil {
		return nil, errors.Wrap(ErrDecompress, "no decompressor configured")
	}
	out, err := ctx.Decompress(b)
	if err != nil {
		return nil, errors.Wrapf(ErrDecompress, "%d compressed bytes: %v", len(b), err)
	}
	return out, nil
}

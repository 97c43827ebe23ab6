package ase

import (
	"fmt"
)

// ChunkType is the 16 bit type code in every chunk header. Values are the
// wire type codes.
type ChunkType uint16

const (
	ChunkOldPalette256 ChunkType = 0x0004
	ChunkOldPalette64  ChunkType = 0x0011
	ChunkLayer         ChunkType = 0x2004
	ChunkCel           ChunkType = 0x2005
	ChunkCelExtra      ChunkType = 0x2006
	ChunkColorProfile  ChunkType = 0x2007
	ChunkExternalFiles ChunkType = 0x2008
	ChunkMask          ChunkType = 0x2016
	ChunkPath          ChunkType = 0x2017
	ChunkTags          ChunkType = 0x2018
	ChunkPalette       ChunkType = 0x2019
	ChunkUserData      ChunkType = 0x2020
	ChunkSlice         ChunkType = 0x2022
	ChunkTileset       ChunkType = 0x2023
)

// String implements the stringer interface.
func (t ChunkType) String() string {
	switch t {
	case ChunkOldPalette256:
		return "OldPalette256"
	case ChunkOldPalette64:
		return "OldPalette64"
	case ChunkLayer:
		return "Layer"
	case ChunkCel:
		return "Cel"
	case ChunkCelExtra:
		return "CelExtra"
	case ChunkColorProfile:
		return "ColorProfile"
	case ChunkExternalFiles:
		return "ExternalFiles"
	case ChunkMask:
		return "Mask"
	case ChunkPath:
		return "Path"
	case ChunkTags:
		return "Tags"
	case ChunkPalette:
		return "Palette"
	case ChunkUserData:
		return "UserData"
	case ChunkSlice:
		return "Slice"
	case ChunkTileset:
		return "Tileset"
	}
	return fmt.Sprintf("ChunkType(%#04x)", uint16(t))
}

// Known reports whether t has a decoder of its own. Chunks of other types
// decode as *UnknownChunk.
func (t ChunkType) Known() bool {
	_, ok := chunkDecoders[t]
	return ok
}

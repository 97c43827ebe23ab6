package ase

// Chunk is one decoded chunk of a frame. The set of implementations is
// closed: a type switch over the *XxxChunk types in this package, plus
// *UnknownChunk, covers every value Decode can produce.
type Chunk interface {
	Type() ChunkType
	isChunk()
}

// OldPalettePacket is one run of an old-style palette: Skip entries are left
// alone, then Colors are written from there on.
type OldPalettePacket struct {
	Skip   uint8
	Colors []RGB
}

// OldPalette256Chunk is the pre-1.1 palette with 0-255 color components.
type OldPalette256Chunk struct {
	Packets []OldPalettePacket
}

// OldPalette64Chunk is the pre-1.1 palette with 0-63 color components.
type OldPalette64Chunk struct {
	Packets []OldPalettePacket
}

// Layer flags.
const (
	LayerVisible          = 1
	LayerEditable         = 2
	LayerLockMovement     = 4
	LayerBackground       = 8
	LayerPreferLinkedCels = 16
	LayerCollapsed        = 32
	LayerReference        = 64
)

// LayerType tells normal, group and tilemap layers apart.
type LayerType uint16

const (
	LayerNormal  LayerType = 0
	LayerGroup   LayerType = 1
	LayerTilemap LayerType = 2
)

// LayerChunk declares one layer. Layers are numbered in the order their
// chunks appear in the first frame; cels refer to them by that number.
type LayerChunk struct {
	Flags      uint16
	LayerType  LayerType
	ChildLevel uint16

	// DefaultWidth and DefaultHeight are ignored by the editor.
	DefaultWidth  uint16
	DefaultHeight uint16

	BlendMode uint16
	Opacity   uint8
	Name      string

	// TilesetIndex is only read for tilemap layers.
	TilesetIndex uint32

	// UUID is 16 bytes when the header says layers carry one, else nil.
	UUID []byte
}

func (l *LayerChunk) Visible() bool   { return l.Flags&LayerVisible != 0 }
func (l *LayerChunk) Reference() bool { return l.Flags&LayerReference != 0 }

// CelType selects the layout of the tail of a cel chunk.
type CelType uint16

const (
	CelRaw               CelType = 0
	CelLinked            CelType = 1
	CelCompressed        CelType = 2
	CelCompressedTilemap CelType = 3
)

// CelChunk places image or tilemap data of one layer in one frame.
type CelChunk struct {
	LayerIndex uint16
	X, Y       int16
	Opacity    uint8
	CelType    CelType

	// Width and Height are set for every cel type except CelLinked.
	Width  uint16
	Height uint16

	// Pixels holds the (decompressed) image of CelRaw and CelCompressed.
	Pixels Pixels

	// FramePosition is the frame whose cel on the same layer a CelLinked
	// cel reuses.
	FramePosition uint16

	// Tilemap fields, for CelCompressedTilemap only.
	BitsPerTile  uint16
	TileIDMask   uint32
	FlipXMask    uint32
	FlipYMask    uint32
	RotationMask uint32
	Tiles        []Tile
}

// CelExtraChunk carries sub-pixel bounds for the preceding cel.
type CelExtraChunk struct {
	Flags uint32

	// The bounds are only meaningful if Flags bit 0 is set.
	X, Y          Fixed
	Width, Height Fixed
}

func (c *CelExtraChunk) PreciseBoundsSet() bool { return c.Flags&1 != 0 }

// Color profile types.
const (
	ProfileNone = 0
	ProfileSRGB = 1
	ProfileICC  = 2
)

type ColorProfileChunk struct {
	ProfileType uint16
	Flags       uint16
	Gamma       Fixed

	// ICC is the embedded profile for ProfileICC, nil otherwise.
	ICC []byte
}

func (c *ColorProfileChunk) FixedGamma() bool { return c.Flags&1 != 0 }

type ExternalFile struct {
	ID   uint32
	Name string
}

type ExternalFilesChunk struct {
	Files []ExternalFile
}

// MaskChunk is deprecated; Bitmap holds Height rows of (Width+7)/8 bytes.
type MaskChunk struct {
	X, Y          int16
	Width, Height uint16
	Name          string
	Bitmap        []byte
}

// PathChunk is never written by the editor and carries nothing.
type PathChunk struct{}

// LoopDirection is the way a tag plays its frames.
type LoopDirection uint8

const (
	LoopForward         LoopDirection = 0
	LoopReverse         LoopDirection = 1
	LoopPingPong        LoopDirection = 2
	LoopPingPongReverse LoopDirection = 3
)

func (d LoopDirection) String() string {
	switch d {
	case LoopForward:
		return "forward"
	case LoopReverse:
		return "reverse"
	case LoopPingPong:
		return "pingpong"
	case LoopPingPongReverse:
		return "pingpong_reverse"
	}
	return "unknown"
}

// Tag names a range of frames.
type Tag struct {
	From, To  uint16
	Direction LoopDirection

	// Repeat is how many times the range plays; 0 means forever.
	Repeat uint16
	Color  RGB
	Name   string
}

type TagsChunk struct {
	Tags []Tag
}

// PaletteEntry is one color of a PaletteChunk. Name is only set if Flags
// bit 0 is.
type PaletteEntry struct {
	Flags uint16
	Color RGBA
	Name  string
}

func (e PaletteEntry) HasName() bool { return e.Flags&1 != 0 }

// PaletteChunk sets palette entries First to Last inclusive.
type PaletteChunk struct {
	Size        uint32
	First, Last uint32
	Entries     []PaletteEntry
}

// UserDataChunk attaches text or a color to the chunk before it.
type UserDataChunk struct {
	Flags uint32
	Text  string
	Color RGBA
}

func (u *UserDataChunk) HasText() bool  { return u.Flags == 1 }
func (u *UserDataChunk) HasColor() bool { return u.Flags == 2 }

// Slice flags.
const (
	Slice9Patch   = 1
	SliceHasPivot = 2
)

type SliceCenter struct {
	X, Y          int32
	Width, Height uint32
}

type SlicePivot struct {
	X, Y int32
}

// SliceKey is the state of a slice from Frame on.
type SliceKey struct {
	Frame         uint32
	X, Y          int32
	Width, Height uint32

	// At most one of Center and Pivot is set, depending on the slice flags.
	Center *SliceCenter
	Pivot  *SlicePivot
}

type SliceChunk struct {
	Flags uint32
	Name  string
	Keys  []SliceKey
}

// Tileset flags.
const (
	TilesetExternal = 1
	TilesetEmbedded = 2
)

type TilesetChunk struct {
	ID         uint32
	Flags      uint32
	TileCount  uint32
	TileWidth  uint16
	TileHeight uint16
	BaseIndex  int16
	Name       string

	// Set if Flags has TilesetExternal.
	ExternalFileID    uint32
	ExternalTilesetID uint32

	// Pixels holds all tiles stacked vertically, if Flags has
	// TilesetEmbedded.
	Pixels Pixels
}

// UnknownChunk keeps the payload of a chunk type this package does not
// decode.
type UnknownChunk struct {
	ChunkType ChunkType
	Data      []byte
}

func (*OldPalette256Chunk) Type() ChunkType { return ChunkOldPalette256 }
func (*OldPalette64Chunk) Type() ChunkType  { return ChunkOldPalette64 }
func (*LayerChunk) Type() ChunkType         { return ChunkLayer }
func (*CelChunk) Type() ChunkType           { return ChunkCel }
func (*CelExtraChunk) Type() ChunkType      { return ChunkCelExtra }
func (*ColorProfileChunk) Type() ChunkType  { return ChunkColorProfile }
func (*ExternalFilesChunk) Type() ChunkType { return ChunkExternalFiles }
func (*MaskChunk) Type() ChunkType          { return ChunkMask }
func (*PathChunk) Type() ChunkType          { return ChunkPath }
func (*TagsChunk) Type() ChunkType          { return ChunkTags }
func (*PaletteChunk) Type() ChunkType       { return ChunkPalette }
func (*UserDataChunk) Type() ChunkType      { return ChunkUserData }
func (*SliceChunk) Type() ChunkType         { return ChunkSlice }
func (*TilesetChunk) Type() ChunkType       { return ChunkTileset }
func (u *UnknownChunk) Type() ChunkType     { return u.ChunkType }

func (*OldPalette256Chunk) isChunk() {}
func (*OldPalette64Chunk) isChunk()  {}
func (*LayerChunk) isChunk()         {}
func (*CelChunk) isChunk()           {}
func (*CelExtraChunk) isChunk()      {}
func (*ColorProfileChunk) isChunk()  {}
func (*ExternalFilesChunk) isChunk() {}
func (*MaskChunk) isChunk()          {}
func (*PathChunk) isChunk()          {}
func (*TagsChunk) isChunk()          {}
func (*PaletteChunk) isChunk()       {}
func (*UserDataChunk) isChunk()      {}
func (*SliceChunk) isChunk()         {}
func (*TilesetChunk) isChunk()       {}
func (*UnknownChunk) isChunk()       {}

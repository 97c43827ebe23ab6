package ase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-aseprite/ttesting"
)

func rgbaHeader() FileHeader {
	return FileHeader{
		Width:            4,
		Height:           3,
		ColorDepth:       DepthRGBA,
		Speed:            100,
		TransparentIndex: 0,
		NumColors:        32,
		PixelWidth:       1,
		PixelHeight:      2,
		GridX:            -3,
		GridY:            5,
		GridWidth:        16,
		GridHeight:       16,
	}
}

func requireStage(t *testing.T, err error, stage Stage) *DecodeError {
	t.Helper()
	require.Error(t, err)
	var de *DecodeError
	require.True(t, errors.As(err, &de), "want *DecodeError, got %T: %v", err, err)
	require.Equal(t, stage, de.Stage, "error: %v", err)
	return de
}

func TestBytesPerPixel(t *testing.T) {
	for _, tc := range []struct {
		depth uint16
		bpp   int
	}{
		{DepthIndexed, 1},
		{DepthGrayscale, 2},
		{DepthRGBA, 4},
	} {
		h := rgbaHeader()
		h.ColorDepth = tc.depth
		b, _ := encodeFile(h)
		doc, err := DecodeBytes(b, nil)
		require.NoError(t, err)
		ttesting.AssertEqual(t, fmt.Sprintf("depth %d", tc.depth), doc.Header.BytesPerPixel(), tc.bpp)
	}
}

func TestBadColorDepth(t *testing.T) {
	for _, depth := range []uint16{0, 1, 15, 24, 64} {
		h := rgbaHeader()
		h.ColorDepth = depth
		b, _ := encodeFile(h)
		_, err := DecodeBytes(b, nil)
		requireStage(t, err, StageHeader)
		require.True(t, errors.Is(err, ErrBadColorDepth), "depth %d: %v", depth, err)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	b, want := encodeFile(rgbaHeader(), encodeFrame(100))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	require.Equal(t, want, doc.Header)
	require.Len(t, doc.Frames, 1)
	require.Equal(t, 100*time.Millisecond, doc.Frames[0].Duration)
	require.Empty(t, doc.Frames[0].Chunks)
}

func TestBadFileMagic(t *testing.T) {
	b, _ := encodeFile(rgbaHeader())
	b[4] = 0x00
	_, err := DecodeBytes(b, nil)
	requireStage(t, err, StageHeader)
	require.True(t, errors.Is(err, ErrBadFileMagic))
}

func TestTruncatedHeader(t *testing.T) {
	b, _ := encodeFile(rgbaHeader())
	_, err := DecodeBytes(b[:100], nil)
	requireStage(t, err, StageHeader)
	require.True(t, errors.Is(err, ErrTruncatedHeader))
	require.True(t, errors.Is(err, ErrUnexpectedEOF))

	_, err = DecodeHeader(bytes.NewReader(b[:3]))
	require.True(t, errors.Is(err, ErrTruncatedHeader))
}

func TestTruncatedFrameHeader(t *testing.T) {
	b, _ := encodeFile(rgbaHeader(), encodeFrame(100))
	_, err := DecodeBytes(b[:HeaderSize+7], nil)
	de := requireStage(t, err, StageFrame)
	require.Equal(t, 0, de.Frame)
	require.Equal(t, int64(HeaderSize), de.Offset)
	require.True(t, errors.Is(err, ErrUnexpectedEOF))
}

func TestMissingFrames(t *testing.T) {
	b, _ := encodeFile(rgbaHeader(), encodeFrame(100), encodeFrame(100))
	_, err := DecodeBytes(b[:len(b)-frameHeaderSize], nil)
	requireStage(t, err, StageFrame)
}

func TestBadFrameMagic(t *testing.T) {
	b, _ := encodeFile(rgbaHeader(), encodeFrame(100), encodeFrame(100))
	b[HeaderSize+frameHeaderSize+4] = 0
	_, err := DecodeBytes(b, nil)
	de := requireStage(t, err, StageFrame)
	require.Equal(t, 1, de.Frame)
	require.True(t, errors.Is(err, ErrBadFrameMagic))
}

func layerChunk(name string) []byte {
	e := &enc{}
	e.u16(LayerVisible).u16(uint16(LayerNormal)).u16(0).u16(0).u16(0).u16(0).u8(255).zero(3).str(name)
	return encodeChunk(ChunkLayer, e.b)
}

func TestChunkCount(t *testing.T) {
	for _, tc := range []struct {
		name   string
		legacy uint16
		modern uint32
		chunks int
	}{
		{"legacy overflow uses modern", 0xFFFF, 5, 5},
		{"legacy wins over larger modern", 3, 99, 3},
		{"legacy wins over smaller modern", 2, 0, 2},
		{"both zero", 0, 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var chunks [][]byte
			for i := 0; i < tc.chunks; i++ {
				chunks = append(chunks, layerChunk("l"))
			}
			b, _ := encodeFile(rgbaHeader(), encodeFrameCounts(10, tc.legacy, tc.modern, chunks...))
			doc, err := DecodeBytes(b, nil)
			require.NoError(t, err)
			require.Len(t, doc.Frames[0].Chunks, tc.chunks)
			require.Equal(t, uint32(tc.chunks), resolveChunkCount(tc.legacy, tc.modern))
		})
	}
}

func TestUnknownChunkKeepsAlignment(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b, _ := encodeFile(rgbaHeader(), encodeFrame(10,
		encodeChunk(0x7777, payload),
		layerChunk("after"),
	))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	chunks := doc.Frames[0].Chunks
	require.Len(t, chunks, 2)
	require.Equal(t, &UnknownChunk{ChunkType: 0x7777, Data: payload}, chunks[0])
	require.Equal(t, ChunkType(0x7777), chunks[0].Type())
	require.False(t, chunks[0].Type().Known())

	l, ok := chunks[1].(*LayerChunk)
	require.True(t, ok, "got %T", chunks[1])
	require.Equal(t, "after", l.Name)
}

func TestTrailingChunkBytesSkipped(t *testing.T) {
	// A path chunk with a payload, then a layer.
	b, _ := encodeFile(rgbaHeader(), encodeFrame(10,
		encodeChunk(ChunkPath, []byte{9, 9, 9}),
		layerChunk("next"),
	))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	require.Equal(t, &PathChunk{}, doc.Frames[0].Chunks[0])
	require.Equal(t, "next", doc.Frames[0].Chunks[1].(*LayerChunk).Name)
}

func TestChunkErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		chunk []byte
		typ   ChunkType
		want  []error
	}{
		{
			name:  "declared size below header",
			chunk: (&enc{}).u32(5).u16(uint16(ChunkLayer)).b,
			typ:   ChunkLayer,
			want:  []error{ErrBadChunkSize},
		},
		{
			name:  "declared size past end of input",
			chunk: (&enc{}).u32(100).u16(uint16(ChunkLayer)).raw([]byte{1, 2}).b,
			typ:   ChunkLayer,
			want:  []error{ErrTruncatedChunk, ErrUnexpectedEOF},
		},
		{
			name:  "fields past declared size",
			chunk: encodeChunk(ChunkLayer, []byte{1, 0, 0}),
			typ:   ChunkLayer,
			want:  []error{ErrTruncatedChunk, ErrUnexpectedEOF},
		},
		{
			name: "unsupported cel type",
			chunk: encodeChunk(ChunkCel,
				(&enc{}).u16(0).i16(0).i16(0).u8(255).u16(7).zero(7).b),
			typ:  ChunkCel,
			want: []error{ErrUnsupportedCelType},
		},
		{
			name: "palette last before first",
			chunk: encodeChunk(ChunkPalette,
				(&enc{}).u32(4).u32(3).u32(2).zero(8).b),
			typ:  ChunkPalette,
			want: []error{ErrInvalidPaletteRange},
		},
		{
			name: "palette count larger than chunk",
			chunk: encodeChunk(ChunkPalette,
				(&enc{}).u32(4).u32(0).u32(0xFFFFFFFE).zero(8).b),
			typ:  ChunkPalette,
			want: []error{ErrTruncatedChunk, ErrUnexpectedEOF},
		},
		{
			name: "compressed cel is not zlib",
			chunk: encodeChunk(ChunkCel,
				(&enc{}).u16(0).i16(0).i16(0).u8(255).u16(uint16(CelCompressed)).zero(7).u16(1).u16(1).raw([]byte("nope")).b),
			typ:  ChunkCel,
			want: []error{ErrDecompress},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := encodeFile(rgbaHeader(), encodeFrame(10, layerChunk("ok"), tc.chunk))
			_, err := DecodeBytes(b, nil)
			de := requireStage(t, err, StageChunk)
			require.Equal(t, 0, de.Frame)
			require.Equal(t, 1, de.Chunk)
			require.Equal(t, tc.typ, de.Type)
			require.Equal(t, int64(HeaderSize+frameHeaderSize+len(layerChunk("ok"))), de.Offset)
			for _, want := range tc.want {
				require.True(t, errors.Is(err, want), "want %v in %v", want, err)
			}
		})
	}
}

func TestPixelDataSizeMismatch(t *testing.T) {
	h := rgbaHeader()
	ctx := newDecodeContext(h, nil)
	cel := &CelChunk{CelType: CelCompressed, Width: 2, Height: 2, Opacity: 255,
		Pixels: Pixels{BytesPerPixel: 4, Data: make([]byte, 12)}}
	b, _ := encodeFile(h, encodeFrame(10, encodeKnown(t, cel, ctx)))
	_, err := DecodeBytes(b, nil)
	requireStage(t, err, StageChunk)
	require.True(t, errors.Is(err, ErrPixelDataSize))
}

func TestPaletteEntryCount(t *testing.T) {
	h := rgbaHeader()
	ctx := newDecodeContext(h, nil)
	p := &PaletteChunk{Size: 8, First: 2, Last: 4, Entries: []PaletteEntry{
		{Color: RGBA{1, 2, 3, 4}},
		{Flags: 1, Color: RGBA{5, 6, 7, 8}, Name: "named"},
		{Color: RGBA{9, 10, 11, 12}},
	}}
	b, _ := encodeFile(h, encodeFrame(10, encodeKnown(t, p, ctx)))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	got := doc.Frames[0].Chunks[0].(*PaletteChunk)
	require.Len(t, got.Entries, int(got.Last-got.First+1))
	require.Equal(t, p, got)
}

func TestLinkedCelHasNoPixels(t *testing.T) {
	e := &enc{}
	e.u16(0).i16(1).i16(2).u8(255).u16(uint16(CelLinked)).zero(7).u16(0)
	// Padding the declared size past the frame position.
	e.raw(make([]byte, 32))
	b, _ := encodeFile(rgbaHeader(), encodeFrame(10,
		layerChunk("bg"),
	), encodeFrame(10, encodeChunk(ChunkCel, e.b), layerChunk("tail")))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	cel := doc.Frames[1].Chunks[0].(*CelChunk)
	require.Equal(t, CelLinked, cel.CelType)
	require.Equal(t, 0, cel.Pixels.Len())
	require.Empty(t, cel.Pixels.Data)
	require.Equal(t, "tail", doc.Frames[1].Chunks[1].(*LayerChunk).Name)
}

func TestTwoFrameScenario(t *testing.T) {
	h := rgbaHeader()
	h.ColorDepth = DepthIndexed
	h.Width, h.Height = 2, 2

	cel := (&enc{}).u16(0).i16(0).i16(0).u8(255).u16(uint16(CelRaw)).zero(7).
		u16(2).u16(2).raw([]byte{1, 2, 3, 4}).b
	b, _ := encodeFile(h,
		encodeFrame(100, layerChunk("Layer 1"), encodeChunk(ChunkCel, cel)),
		encodeFrame(100),
	)

	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	require.Len(t, doc.Frames, 2)
	require.Len(t, doc.Frames[0].Chunks, 2)

	l, ok := doc.Frames[0].Chunks[0].(*LayerChunk)
	require.True(t, ok)
	require.Equal(t, uint16(0), l.ChildLevel)

	c, ok := doc.Frames[0].Chunks[1].(*CelChunk)
	require.True(t, ok)
	ttesting.AssertEqual(t, "pixels", c.Pixels.Len(), 4)
	for i := 0; i < c.Pixels.Len(); i++ {
		require.Equal(t, Pixel{byte(i + 1)}, c.Pixels.At(i))
	}
}

func TestRoundTrip(t *testing.T) {
	h := rgbaHeader()
	h.Flags = FlagLayerOpacityValid | FlagLayersHaveUUID
	ctx := newDecodeContext(h, nil)
	uuid := func(b byte) []byte { return bytes.Repeat([]byte{b}, uuidSize) }

	frame0 := []Chunk{
		&ColorProfileChunk{ProfileType: ProfileICC, Flags: 1, Gamma: Fixed{Int: 2, Frac: 0x3333}, ICC: []byte("icc profile")},
		&ColorProfileChunk{ProfileType: ProfileSRGB},
		&OldPalette256Chunk{Packets: []OldPalettePacket{
			{Skip: 0, Colors: []RGB{{1, 2, 3}, {4, 5, 6}}},
			{Skip: 3, Colors: make([]RGB, 256)},
		}},
		&OldPalette64Chunk{Packets: []OldPalettePacket{{Skip: 1, Colors: []RGB{{63, 0, 1}}}}},
		&PaletteChunk{Size: 2, First: 0, Last: 1, Entries: []PaletteEntry{
			{Color: RGBA{0, 0, 0, 0}},
			{Flags: 1, Color: RGBA{255, 0, 0, 255}, Name: "red"},
		}},
		&ExternalFilesChunk{Files: []ExternalFile{{ID: 7, Name: "tiles.aseprite"}, {ID: 9, Name: ""}}},
		&TilesetChunk{ID: 0, Flags: TilesetExternal | TilesetEmbedded, TileCount: 2, TileWidth: 1, TileHeight: 2,
			BaseIndex: 1, Name: "ts", ExternalFileID: 7, ExternalTilesetID: 3,
			Pixels: Pixels{BytesPerPixel: 4, Data: bytes.Repeat([]byte{0xAB}, 2*1*2*4)}},
		&TilesetChunk{ID: 1, Name: "empty"},
		&LayerChunk{Flags: LayerVisible | LayerEditable, LayerType: LayerNormal, Opacity: 255, Name: "bg", UUID: uuid(1)},
		&UserDataChunk{Flags: 1, Text: "layer note"},
		&LayerChunk{Flags: LayerVisible, LayerType: LayerGroup, BlendMode: 3, Opacity: 128, Name: "group", UUID: uuid(2)},
		&LayerChunk{Flags: LayerVisible, LayerType: LayerTilemap, ChildLevel: 1, Name: "map", TilesetIndex: 0, UUID: uuid(3)},
		&CelChunk{LayerIndex: 0, X: -1, Y: 2, Opacity: 200, CelType: CelRaw, Width: 2, Height: 1,
			Pixels: Pixels{BytesPerPixel: 4, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}},
		&CelExtraChunk{Flags: 1, X: Fixed{Int: -1, Frac: 0x8000}, Y: Fixed{Int: 2}, Width: Fixed{Int: 2, Frac: 1}, Height: Fixed{Int: 1}},
		&UserDataChunk{Flags: 2, Color: RGBA{10, 20, 30, 40}},
		&CelChunk{LayerIndex: 2, CelType: CelCompressedTilemap, Opacity: 255, Width: 2, Height: 2, BitsPerTile: 32,
			TileIDMask: 0x1fffffff, FlipXMask: 0x20000000, FlipYMask: 0x40000000, RotationMask: 0x80000000,
			Tiles: []Tile{0, 1, 0x20000001, 0}},
		&TagsChunk{Tags: []Tag{
			{From: 0, To: 1, Direction: LoopPingPong, Repeat: 3, Color: RGB{1, 2, 3}, Name: "walk"},
			{From: 1, To: 1, Direction: LoopReverse, Name: ""},
		}},
		&SliceChunk{Flags: Slice9Patch, Name: "nine", Keys: []SliceKey{
			{Frame: 0, X: -2, Y: 3, Width: 10, Height: 11, Center: &SliceCenter{X: 1, Y: 1, Width: 8, Height: 9}},
		}},
		&SliceChunk{Flags: SliceHasPivot, Name: "pivot", Keys: []SliceKey{
			{Frame: 0, Width: 1, Height: 1, Pivot: &SlicePivot{X: -5, Y: 6}},
			{Frame: 1, X: 1, Width: 2, Height: 2, Pivot: &SlicePivot{X: 0, Y: 0}},
		}},
		&SliceChunk{Flags: 0, Name: "plain", Keys: []SliceKey{{Frame: 0, Width: 4, Height: 4}}},
		&MaskChunk{X: 1, Y: -1, Width: 9, Height: 2, Name: "mask", Bitmap: []byte{0xff, 0x80, 0x01, 0x00}},
		&PathChunk{},
		&UserDataChunk{Flags: 0},
	}
	frame1 := []Chunk{
		&CelChunk{LayerIndex: 0, CelType: CelLinked, FramePosition: 0},
		&CelChunk{LayerIndex: 0, X: 3, Y: 4, Opacity: 10, CelType: CelCompressed, Width: 1, Height: 2,
			Pixels: Pixels{BytesPerPixel: 4, Data: []byte{9, 8, 7, 6, 5, 4, 3, 2}}},
	}

	encode := func(chunks []Chunk) [][]byte {
		var out [][]byte
		for _, c := range chunks {
			out = append(out, encodeKnown(t, c, ctx))
		}
		return out
	}
	b, wantHeader := encodeFile(h,
		encodeFrame(100, encode(frame0)...),
		encodeFrame(250, encode(frame1)...),
	)

	doc, err := Decode(bytes.NewReader(b), nil)
	require.NoError(t, err)
	require.Equal(t, wantHeader, doc.Header)
	require.Len(t, doc.Frames, 2)
	require.Equal(t, 250*time.Millisecond, doc.Frames[1].Duration)
	require.Equal(t, uint32(len(encodeFrame(250, encode(frame1)...))), doc.Frames[1].Size)

	for fi, want := range [][]Chunk{frame0, frame1} {
		got := doc.Frames[fi].Chunks
		require.Len(t, got, len(want))
		for i := range want {
			require.Equal(t, want[i], got[i], "frame %d chunk %d (%v)", fi, i, want[i].Type())
		}
	}
}

func TestUserDataFlags(t *testing.T) {
	text := &UserDataChunk{Flags: 1, Text: "hello"}
	require.True(t, text.HasText())
	require.False(t, text.HasColor())

	col := &UserDataChunk{Flags: 2, Color: RGBA{1, 2, 3, 4}}
	require.False(t, col.HasText())
	require.True(t, col.HasColor())

	// Both bits set is neither.
	both := &UserDataChunk{Flags: 3}
	require.False(t, both.HasText())
	require.False(t, both.HasColor())
}

// With both slice flags set a key carries a center only.
func TestSliceCenterExcludesPivot(t *testing.T) {
	ctx := newDecodeContext(rgbaHeader(), nil)
	slice := &SliceChunk{Flags: Slice9Patch | SliceHasPivot, Name: "both", Keys: []SliceKey{
		{Frame: 0, Width: 4, Height: 4, Center: &SliceCenter{X: 1, Y: 1, Width: 2, Height: 2}},
		{Frame: 1, Width: 5, Height: 5, Center: &SliceCenter{X: 2, Y: 2, Width: 1, Height: 1}},
	}}
	b, _ := encodeFile(rgbaHeader(), encodeFrame(10, encodeKnown(t, slice, ctx), layerChunk("after")))

	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	chunks := doc.Frames[0].Chunks
	require.Len(t, chunks, 2)
	got, ok := chunks[0].(*SliceChunk)
	require.True(t, ok, "got %T", chunks[0])
	require.Equal(t, slice, got)
	for _, k := range got.Keys {
		require.NotNil(t, k.Center)
		require.Nil(t, k.Pivot)
	}
	require.Equal(t, "after", chunks[1].(*LayerChunk).Name)
}

func TestFrameSizePastEnd(t *testing.T) {
	frame := encodeFrame(10, layerChunk("l"))
	binary.LittleEndian.PutUint32(frame, uint32(len(frame)+100))
	b, _ := encodeFile(rgbaHeader(), frame)

	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	require.Len(t, doc.Frames, 1)
	ttesting.AssertEqual(t, "declared size", doc.Frames[0].Size, uint32(len(frame)+100))
	require.Len(t, doc.Frames[0].Chunks, 1)
}

func TestLayerWithoutUUID(t *testing.T) {
	h := rgbaHeader()
	ctx := newDecodeContext(h, nil)
	l := &LayerChunk{Flags: LayerVisible, Name: "no uuid"}
	b, _ := encodeFile(h, encodeFrame(1, encodeKnown(t, l, ctx)))
	doc, err := DecodeBytes(b, nil)
	require.NoError(t, err)
	require.Equal(t, l, doc.Frames[0].Chunks[0])
	require.Nil(t, doc.Frames[0].Chunks[0].(*LayerChunk).UUID)
}

func TestCustomDecompressor(t *testing.T) {
	h := rgbaHeader()
	cel := (&enc{}).u16(0).i16(0).i16(0).u8(255).u16(uint16(CelCompressed)).zero(7).
		u16(1).u16(1).raw([]byte("opaque")).b
	b, _ := encodeFile(h, encodeFrame(1, encodeChunk(ChunkCel, cel)))

	var seen []byte
	doc, err := DecodeBytes(b, &Options{Decompress: func(in []byte) ([]byte, error) {
		seen = in
		return []byte{1, 2, 3, 4}, nil
	}})
	require.NoError(t, err)
	require.Equal(t, []byte("opaque"), seen)
	require.Equal(t, []byte{1, 2, 3, 4}, doc.Frames[0].Chunks[0].(*CelChunk).Pixels.Data)
}

func TestChunkTypeString(t *testing.T) {
	ttesting.AssertEqual(t, "cel", ChunkCel.String(), "Cel")
	ttesting.AssertEqual(t, "tileset", ChunkTileset.String(), "Tileset")
	ttesting.AssertEqual(t, "unknown", ChunkType(0x1234).String(), "ChunkType(0x1234)")
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{Stage: StageChunk, Frame: 2, Chunk: 5, Type: ChunkCel, Offset: 0x200, Err: ErrUnsupportedCelType}
	require.Equal(t, "ase: frame 2 chunk 5 (Cel) at offset 0x200: unsupported cel type", err.Error())
	require.True(t, errors.Is(err, ErrUnsupportedCelType))
}

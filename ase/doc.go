// Package ase implements a decoder for Aseprite sprite files (.ase, .aseprite).
//
// A file is a fixed 128 byte header followed by frames. Each frame is a list
// of type-tagged chunks: layers, cels, palettes, tags, slices, tilesets and so
// on. Decode reads the whole file in a single pass and returns a Document
// holding every chunk as a plain Go value; nothing is rendered or flattened
// at decode time. CelImage and Composite turn decoded cels into images.
//
// Compressed pixel data (cel types 2 and 3, tileset images) is handed to a
// Decompressor. The default one is inflate.Zlib.
//
// Format reference: https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md
package ase

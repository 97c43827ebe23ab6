package main

import (
	"github.com/casbin/govaluate"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-aseprite/ase"
)

// chunkFilter selects chunks with a boolean expression such as
//
//	type == 'Cel' && layer == 1 && frame > 0
//
// Every chunk has frame, index and type. Other parameters depend on the
// chunk type; numbers are float64.
type chunkFilter struct {
	expr *govaluate.EvaluableExpression
}

func newChunkFilter(s string) (*chunkFilter, error) {
	if s == "" {
		return nil, nil
	}
	expr, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		return nil, errors.Wrap(err, "parsing filter")
	}
	return &chunkFilter{expr: expr}, nil
}

// Match reports whether the chunk at index idx of frame passes. A nil
// filter passes everything.
func (f *chunkFilter) Match(frame, idx int, ch ase.Chunk) (bool, error) {
	if f == nil {
		return true, nil
	}
	res, err := f.expr.Evaluate(chunkParams(frame, idx, ch))
	if err != nil {
		return false, errors.Wrap(err, "evaluating filter")
	}
	ok, isBool := res.(bool)
	if !isBool {
		return false, errors.Errorf("filter returned %T, want bool", res)
	}
	return ok, nil
}

func chunkParams(frame, idx int, ch ase.Chunk) map[string]interface{} {
	p := map[string]interface{}{
		"frame":   float64(frame),
		"index":   float64(idx),
		"type":    ch.Type().String(),
		"type_id": float64(ch.Type()),
		"name":    "",
	}
	switch c := ch.(type) {
	case *ase.LayerChunk:
		p["name"] = c.Name
		p["opacity"] = float64(c.Opacity)
		p["visible"] = c.Visible()
		p["level"] = float64(c.ChildLevel)
	case *ase.CelChunk:
		p["layer"] = float64(c.LayerIndex)
		p["x"] = float64(c.X)
		p["y"] = float64(c.Y)
		p["width"] = float64(c.Width)
		p["height"] = float64(c.Height)
		p["opacity"] = float64(c.Opacity)
		p["cel_type"] = float64(c.CelType)
	case *ase.PaletteChunk:
		p["size"] = float64(c.Size)
	case *ase.TagsChunk:
		p["count"] = float64(len(c.Tags))
	case *ase.SliceChunk:
		p["name"] = c.Name
		p["count"] = float64(len(c.Keys))
	case *ase.TilesetChunk:
		p["name"] = c.Name
		p["count"] = float64(c.TileCount)
	case *ase.MaskChunk:
		p["name"] = c.Name
	case *ase.UserDataChunk:
		p["name"] = c.Text
	case *ase.UnknownChunk:
		p["size"] = float64(len(c.Data))
	}
	return p
}

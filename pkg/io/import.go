package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
)

// wire types mirror the persisted form. Slices rather than arrays so that
// shape violations surface as explicit errors instead of silently dropped or
// zero-filled entries.
type pattern struct {
	Pixels [][]pixel `json:"pixels"`
}

type pixel struct {
	Color channels `json:"color"`
	Perm  [][]int  `json:"perm"`
}

type channels struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ReadJSON decodes a pattern record from r.
//
// ReadJSON enforces the structural shape of the record: a 2×2 "pixels" array
// whose entries each carry a color and a perm of exactly four two-element
// coordinate pairs. Malformed JSON and shape violations are parse failures,
// reported verbatim with the offending pixel's position.
//
// ReadJSON does not check color ranges or bijection invariants; pass the
// result through [fractal.Validate] before generating. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (fractal.Pattern, error) {
	var p fractal.Pattern

	var data pattern
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return p, fmt.Errorf("decode: %w", err)
	}

	if len(data.Pixels) != 2 {
		return p, fmt.Errorf("pixels: want 2 rows, got %d", len(data.Pixels))
	}
	for y, row := range data.Pixels {
		if len(row) != 2 {
			return p, fmt.Errorf("pixels row %d: want 2 entries, got %d", y, len(row))
		}
		for x, px := range row {
			decoded, err := decodePixel(px)
			if err != nil {
				return p, fmt.Errorf("pixel (%d,%d): %w", y, x, err)
			}
			p[y][x] = decoded
		}
	}

	return p, nil
}

func decodePixel(px pixel) (fractal.Pixel, error) {
	var out fractal.Pixel
	out.Color = fractal.Color{R: px.Color.R, G: px.Color.G, B: px.Color.B, A: px.Color.A}

	if len(px.Perm) != 4 {
		return out, fmt.Errorf("perm: want 4 coordinate pairs, got %d", len(px.Perm))
	}
	for i, pair := range px.Perm {
		if len(pair) != 2 {
			return out, fmt.Errorf("perm entry %d: want (row,col) pair, got %d values", i, len(pair))
		}
		out.Sym.Mapping[i] = fractal.Cell{Row: pair[0], Col: pair[1]}
	}
	return out, nil
}

// ImportJSON reads the pattern file at path and returns the decoded pattern.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. A missing file carries errors.ErrCodeFileNotFound, a malformed one
// errors.ErrCodeInvalidPatternFile, both wrapped with the file path; like
// ReadJSON, it leaves invariant checking to [fractal.Validate].
func ImportJSON(path string) (fractal.Pattern, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return fractal.Pattern{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return fractal.Pattern{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadJSON(f)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidPatternFile, err, "%s", path)
	}
	return p, nil
}

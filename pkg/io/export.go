package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fractile/fractile/pkg/fractal"
)

// Marshal encodes a pattern into its persisted wire form. It is the single
// canonical byte representation of a pattern, used both for files and as
// cache-key material.
func Marshal(p fractal.Pattern) ([]byte, error) {
	out := pattern{Pixels: make([][]pixel, 2)}
	for y := 0; y < 2; y++ {
		out.Pixels[y] = make([]pixel, 2)
		for x := 0; x < 2; x++ {
			out.Pixels[y][x] = encodePixel(p[y][x])
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

func encodePixel(px fractal.Pixel) pixel {
	perm := make([][]int, 4)
	for i, to := range px.Sym.Mapping {
		perm[i] = []int{to.Row, to.Col}
	}
	return pixel{
		Color: channels{R: px.Color.R, G: px.Color.G, B: px.Color.B, A: px.Color.A},
		Perm:  perm,
	}
}

// WriteJSON encodes a pattern and writes it to w, indented for hand editing.
// The output round-trips through [ReadJSON] unchanged.
func WriteJSON(p fractal.Pattern, w io.Writer) error {
	out := pattern{Pixels: make([][]pixel, 2)}
	for y := 0; y < 2; y++ {
		out.Pixels[y] = make([]pixel, 2)
		for x := 0; x < 2; x++ {
			out.Pixels[y][x] = encodePixel(p[y][x])
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a pattern to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(p fractal.Pattern, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, f)
}

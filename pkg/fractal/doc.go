// Package fractal implements the generation engine for self-similar raster
// images built from a 2×2 seed pattern.
//
// A [Pattern] is a 2×2 grid of pixels, each carrying a color and a [Symmetry]
// (a bijection on the four cells of a 2×2 grid). [Generate] expands the seed
// into a 2^n × 2^n color grid: at every doubling each populated cell is
// replaced by the seed pattern read under that cell's accumulated orientation,
// blended against the cell's own color with a weight derived from a geometric
// decay factor and the cell's alpha.
//
// The engine is deterministic and purely value-based: symmetries, colors, and
// patterns are immutable value types, and each Generate call owns its buffer
// exclusively. All fallibility lives in [Validate]; Generate assumes validated
// input and never fails.
//
// # Usage
//
//	p := fractal.Reference()
//	if err := fractal.Validate(p); err != nil {
//	    return err
//	}
//	grid := fractal.Generate(p, 9, 0.5) // 512×512 colors
package fractal

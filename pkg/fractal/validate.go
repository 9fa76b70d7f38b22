package fractal

import (
	"github.com/fractile/fractile/pkg/errors"
)

// Validate checks a pattern's structural and numeric invariants. It is the
// gate every externally supplied pattern must pass before [Generate] may
// consume it.
//
// Rules are checked in a fixed order and the first violation aborts
// validation; no partial patterns are accepted:
//
//  1. every color channel of every pixel lies in [0,1]
//  2. every mapping coordinate lies in {0,1}×{0,1}
//  3. no two source cells map to the same destination
//  4. all four destinations are covered
//
// Rule 4 follows from 2+3 for a well-formed four-entry table, but is checked
// explicitly so a malformed table cannot slip through with fewer than four
// distinct destinations masked by duplicates.
//
// Each rule reports a distinct [errors.Code]: ErrCodeColorRange,
// ErrCodeCoordRange, ErrCodeDuplicateMapping, ErrCodeIncompleteMapping.
func Validate(p Pattern) error {
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if err := validateColor(p[y][x].Color, y, x); err != nil {
				return err
			}
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if err := validateCoords(p[y][x].Sym, y, x); err != nil {
				return err
			}
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if err := validateBijection(p[y][x].Sym, y, x); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateParams checks the generator's scalar parameters: iterations must be
// at least 1 (a 1×1 output cannot hold the 2×2 seed, so iterations == 0 is
// rejected rather than guessed at) and decay must lie in [0,1].
func ValidateParams(iterations int, decay float64) error {
	if iterations < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "iterations must be >= 1, got %d", iterations)
	}
	if decay < 0 || decay > 1 {
		return errors.New(errors.ErrCodeInvalidParams, "decay must be in [0,1], got %v", decay)
	}
	return nil
}

func validateColor(c Color, y, x int) error {
	channels := [4]struct {
		name string
		v    float64
	}{
		{"red", c.R}, {"green", c.G}, {"blue", c.B}, {"alpha", c.A},
	}
	for _, ch := range channels {
		if ch.v < 0 || ch.v > 1 {
			return errors.New(errors.ErrCodeColorRange,
				"pixel (%d,%d): %s channel %v outside [0,1]", y, x, ch.name, ch.v)
		}
	}
	return nil
}

func validateCoords(s Symmetry, y, x int) error {
	for i, to := range s.Mapping {
		if to.Row < 0 || to.Row > 1 || to.Col < 0 || to.Col > 1 {
			return errors.New(errors.ErrCodeCoordRange,
				"pixel (%d,%d): mapping entry %d destination (%d,%d) outside the 2×2 grid",
				y, x, i, to.Row, to.Col)
		}
	}
	return nil
}

func validateBijection(s Symmetry, y, x int) error {
	var seen [4]bool
	for i, to := range s.Mapping {
		if seen[to.index()] {
			return errors.New(errors.ErrCodeDuplicateMapping,
				"pixel (%d,%d): mapping entry %d maps to (%d,%d) twice", y, x, i, to.Row, to.Col)
		}
		seen[to.index()] = true
	}
	for idx, hit := range seen {
		if !hit {
			return errors.New(errors.ErrCodeIncompleteMapping,
				"pixel (%d,%d): destination (%d,%d) is never mapped to", y, x, idx/2, idx%2)
		}
	}
	return nil
}

package fractal

import (
	"fmt"
	"strings"
)

// Cell addresses one of the four cells of a 2×2 grid.
// Row and Col are each 0 or 1 for a valid cell.
type Cell struct {
	Row int
	Col int
}

// index flattens a cell into the canonical 0..3 cell index (row-major).
func (c Cell) index() int {
	return c.Row*2 + c.Col
}

// Symmetry is a bijection on the four cells of a 2×2 grid, stored as a
// table mapping each source cell index (row-major: 0=(0,0), 1=(0,1),
// 2=(1,0), 3=(1,1)) to its destination cell.
//
// The five predefined constructors cover the dihedral elements the reference
// seed uses; [Symmetry.Compose] can synthesize any bijection reachable from
// them. Symmetry is a value type and is copied freely.
//
// A Symmetry built from external data (a persisted pattern) is not
// necessarily a bijection; [Validate] is the gate that enforces it.
type Symmetry struct {
	Mapping [4]Cell
}

// Identity returns the symmetry that leaves every cell in place.
func Identity() Symmetry {
	return Symmetry{Mapping: [4]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}}
}

// Rotate90 returns the quarter-turn rotation of the 2×2 grid.
func Rotate90() Symmetry {
	return Symmetry{Mapping: [4]Cell{{0, 1}, {1, 1}, {0, 0}, {1, 0}}}
}

// Rotate270 returns the reverse quarter-turn rotation. It is distinct from
// [Rotate90]; the two must not be interchanged.
func Rotate270() Symmetry {
	return Symmetry{Mapping: [4]Cell{{1, 0}, {0, 0}, {1, 1}, {0, 1}}}
}

// FlipH returns the horizontal mirror (columns swapped).
func FlipH() Symmetry {
	return Symmetry{Mapping: [4]Cell{{0, 1}, {0, 0}, {1, 1}, {1, 0}}}
}

// FlipV returns the vertical mirror (rows swapped).
func FlipV() Symmetry {
	return Symmetry{Mapping: [4]Cell{{1, 0}, {1, 1}, {0, 0}, {0, 1}}}
}

// Compose returns the symmetry equivalent to applying s first, then other.
// For every source cell index i:
//
//	result.Mapping[i] = other.Mapping[index(s.Mapping[i])]
//
// so that Apply(s.Compose(other), g) == Apply(other, Apply(s, g)) for any
// grid g. The generator relies on this left-to-right direction to accumulate
// orientation across recursion levels; do not swap the operands.
func (s Symmetry) Compose(other Symmetry) Symmetry {
	var result Symmetry
	for i := 0; i < 4; i++ {
		result.Mapping[i] = other.Mapping[s.Mapping[i].index()]
	}
	return result
}

// Apply permutes a 2×2 grid by s: the element at source cell i is placed at
// destination s.Mapping[i]. The input grid is not modified.
//
// Apply assumes s is a valid bijection (validated input); out-of-range
// destinations would panic on index.
func Apply[T any](s Symmetry, grid [2][2]T) [2][2]T {
	var result [2][2]T
	for i := 0; i < 4; i++ {
		to := s.Mapping[i]
		result[to.Row][to.Col] = grid[i/2][i%2]
	}
	return result
}

// IsBijection reports whether every mapping coordinate is in {0,1}×{0,1} and
// every destination cell is hit exactly once.
func (s Symmetry) IsBijection() bool {
	var seen [4]bool
	for _, to := range s.Mapping {
		if to.Row < 0 || to.Row > 1 || to.Col < 0 || to.Col > 1 {
			return false
		}
		if seen[to.index()] {
			return false
		}
		seen[to.index()] = true
	}
	return true
}

// String returns the predefined name of s if it has one, or the raw mapping
// table otherwise.
func (s Symmetry) String() string {
	switch s {
	case Identity():
		return "identity"
	case Rotate90():
		return "rotate90"
	case Rotate270():
		return "rotate270"
	case FlipH():
		return "flipH"
	case FlipV():
		return "flipV"
	}
	parts := make([]string, 4)
	for i, to := range s.Mapping {
		parts[i] = fmt.Sprintf("(%d,%d)", to.Row, to.Col)
	}
	return "perm[" + strings.Join(parts, " ") + "]"
}

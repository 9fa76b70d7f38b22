package fractal

// Grid is a square, row-major color grid produced by [Generate]. It has no
// persistent identity; each Generate call returns a fresh one.
type Grid struct {
	side int
	pix  []Color
}

// Side returns the side length of the grid.
func (g Grid) Side() int {
	return g.side
}

// At returns the color at the given row and column.
func (g Grid) At(row, col int) Color {
	return g.pix[row*g.side+col]
}

// Colors returns the backing row-major color slice. The slice is owned by the
// grid; callers must not hold it past the grid's lifetime if they mutate it.
func (g Grid) Colors() []Color {
	return g.pix
}

// Generate expands the seed pattern into a 2^iterations square color grid.
//
// The grid is seeded with the pattern's four pixels in its top-left corner
// and doubled repeatedly in place. Each doubling multiplies a running blend
// weight by decay, then replaces every populated cell with the seed pattern
// read under the cell's accumulated symmetry, blending each sub-pixel against
// the cell's opaque color with factor 1-(1-blend)*alpha: opaque cells are
// fully replaced by their children, transparent ones fade in at the decayed
// rate. Child symmetries are the composition of the parent's with the
// permuted sub-pixel's, except on the last doubling where they are reset to
// identity since nothing consumes them (bookkeeping only, colors are
// unaffected).
//
// Cells are processed in descending row, then descending column order. The
// expansion writes each cell's 2×2 block at (2y..2y+1, 2x..2x+1) into the
// same buffer it reads from; sweeping from the highest indices down
// guarantees no unprocessed cell is overwritten before it is read. The
// traversal order is not negotiable while the expansion stays in place.
//
// Generate assumes p has passed [Validate] and that [ValidateParams] accepted
// iterations and decay; it performs no checks of its own and never fails.
// iterations == 1 skips the loop entirely and returns the seed colors
// verbatim, leaving decay unused. Memory grows as O(4^iterations); callers
// should warn or refuse somewhere above depth 11.
func Generate(p Pattern, iterations int, decay float64) Grid {
	final := 1 << iterations
	cells := make([]Pixel, final*final)
	identity := Identity()
	for i := range cells {
		cells[i].Sym = identity
	}

	cells[0] = p[0][0]
	cells[1] = p[0][1]
	cells[final] = p[1][0]
	cells[final+1] = p[1][1]

	blend := 1.0
	for size := 2; size < final; size *= 2 {
		blend *= decay
		last := size*2 == final

		for y := size - 1; y >= 0; y-- {
			for x := size - 1; x >= 0; x-- {
				cell := cells[y*final+x]
				opaque := cell.Color.Opaque()
				sub := Apply(cell.Sym, [2][2]Pixel(p))
				factor := 1 - (1-blend)*cell.Color.A

				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						sp := sub[dy][dx]
						next := Pixel{
							Color: opaque.Blend(sp.Color, factor),
							Sym:   identity,
						}
						if !last {
							next.Sym = cell.Sym.Compose(sp.Sym)
						}
						cells[(2*y+dy)*final+(2*x+dx)] = next
					}
				}
			}
		}
	}

	pix := make([]Color, len(cells))
	for i, c := range cells {
		pix[i] = c.Color
	}
	return Grid{side: final, pix: pix}
}

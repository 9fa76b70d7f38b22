package fractal

import "testing"

// generateReference is an independent oracle for Generate. It expands level by
// level into a fresh buffer in ascending order instead of doubling in place,
// so a traversal-order bug in the in-place sweep cannot hide in both.
func generateReference(p Pattern, iterations int, decay float64) []Color {
	size := 2
	cur := []Pixel{p[0][0], p[0][1], p[1][0], p[1][1]}

	blend := 1.0
	for depth := 1; depth < iterations; depth++ {
		blend *= decay
		last := depth == iterations-1

		next := make([]Pixel, size*2*size*2)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				cell := cur[y*size+x]
				opaque := cell.Color.Opaque()
				sub := Apply(cell.Sym, [2][2]Pixel(p))
				factor := 1 - (1-blend)*cell.Color.A

				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						sp := sub[dy][dx]
						np := Pixel{Color: opaque.Blend(sp.Color, factor), Sym: Identity()}
						if !last {
							np.Sym = cell.Sym.Compose(sp.Sym)
						}
						next[(2*y+dy)*size*2+(2*x+dx)] = np
					}
				}
			}
		}
		cur = next
		size *= 2
	}

	out := make([]Color, len(cur))
	for i, c := range cur {
		out[i] = c.Color
	}
	return out
}

func TestGenerateIterationsOne(t *testing.T) {
	p := Reference()

	for _, decay := range []float64{0, 0.3, 1} {
		g := Generate(p, 1, decay)
		if g.Side() != 2 {
			t.Fatalf("Side() = %d, want 2", g.Side())
		}
		for row := 0; row < 2; row++ {
			for col := 0; col < 2; col++ {
				if got := g.At(row, col); got != p[row][col].Color {
					t.Errorf("decay=%v At(%d,%d) = %+v, want seed color %+v",
						decay, row, col, got, p[row][col].Color)
				}
			}
		}
	}
}

func TestGenerateDecayOneFullReplacement(t *testing.T) {
	// With decay 1 the blend weight stays 1, the blend factor is 1 for every
	// alpha, and each quadrant of a depth-2 grid is the seed read under the
	// quadrant pixel's symmetry.
	p := Reference()
	g := Generate(p, 2, 1)

	if g.Side() != 4 {
		t.Fatalf("Side() = %d, want 4", g.Side())
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			want := Apply(p[row][col].Sym, [2][2]Pixel(p))
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					got := g.At(2*row+dy, 2*col+dx)
					if got != want[dy][dx].Color {
						t.Errorf("quadrant (%d,%d) cell (%d,%d) = %+v, want %+v",
							row, col, dy, dx, got, want[dy][dx].Color)
					}
				}
			}
		}
	}
}

func TestGenerateDecayZeroKeepsOpaqueParents(t *testing.T) {
	// Decay 0 drops the blend weight to 0 after the first doubling, so a
	// fully opaque parent's children all inherit its color unchanged.
	p := Reference()
	g := Generate(p, 3, 0)

	parent := Generate(p, 2, 0)
	for row := 0; row < parent.Side(); row++ {
		for col := 0; col < parent.Side(); col++ {
			pc := parent.At(row, col)
			if pc.A != 1 {
				continue
			}
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					got := g.At(2*row+dy, 2*col+dx)
					want := Color{R: pc.R, G: pc.G, B: pc.B, A: 1}
					if got != want {
						t.Errorf("child of opaque (%d,%d) = %+v, want %+v", row, col, got, want)
					}
				}
			}
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	p := Reference()
	a := Generate(p, 5, 0.5)
	b := Generate(p, 5, 0.5)

	if a.Side() != b.Side() {
		t.Fatalf("sides differ: %d vs %d", a.Side(), b.Side())
	}
	ac, bc := a.Colors(), b.Colors()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("pixel %d differs: %+v vs %+v", i, ac[i], bc[i])
		}
	}
}

func TestGenerateMatchesReference(t *testing.T) {
	p := Reference()

	for iterations := 1; iterations <= 5; iterations++ {
		for _, decay := range []float64{0, 0.25, 0.5, 0.9, 1} {
			g := Generate(p, iterations, decay)
			want := generateReference(p, iterations, decay)

			side := 1 << iterations
			if g.Side() != side {
				t.Fatalf("iterations=%d Side() = %d, want %d", iterations, g.Side(), side)
			}
			got := g.Colors()
			if len(got) != len(want) {
				t.Fatalf("iterations=%d len = %d, want %d", iterations, len(got), len(want))
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("iterations=%d decay=%v pixel (%d,%d): got %+v, want %+v",
						iterations, decay, i/side, i%side, got[i], want[i])
				}
			}
		}
	}
}

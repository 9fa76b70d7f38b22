package fractal

// Pixel pairs a color with the orientation under which this cell's own seed
// sub-pattern is read during expansion.
type Pixel struct {
	Color Color
	Sym   Symmetry
}

// Pattern is the user-authored 2×2 seed from which the whole image is
// generated. It is immutable input to [Generate]; run [Validate] on any
// pattern that did not come from a constructor in this package.
type Pattern [2][2]Pixel

// Reference returns the built-in seed pattern: a blue identity cell, a
// translucent black horizontal flip, a brown reverse quarter-turn, and an
// opaque black quarter-turn.
func Reference() Pattern {
	return Pattern{
		{
			{Color: Color{R: 0.2, G: 0.4, B: 0.6, A: 1.0}, Sym: Identity()},
			{Color: Color{R: 0.0, G: 0.0, B: 0.0, A: 0.1}, Sym: FlipH()},
		},
		{
			{Color: Color{R: 0.6, G: 0.4, B: 0.2, A: 1.0}, Sym: Rotate270()},
			{Color: Color{R: 0.0, G: 0.0, B: 0.0, A: 1.0}, Sym: Rotate90()},
		},
	}
}

// Symmetries returns the four symmetries of the pattern in row-major order.
func (p Pattern) Symmetries() [4]Symmetry {
	return [4]Symmetry{p[0][0].Sym, p[0][1].Sym, p[1][0].Sym, p[1][1].Sym}
}

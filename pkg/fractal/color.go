package fractal

import "image/color"

// Color is a four-channel floating-point color. Channels are nominally in
// [0,1] once a pattern has been validated; blending can be driven with
// arbitrary interpolation factors and never clamps.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Blend returns the per-channel linear interpolation c + (other-c)*t.
//
// t is deliberately not clamped to [0,1]: the generator's alpha-dependent
// blend factor stays within that interval for validated input, but the
// formula itself admits any real t and callers get exactly what they ask for.
func (c Color) Blend(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Opaque returns c with the alpha channel forced to 1. The generator uses the
// opaque form of a parent cell's color as the base of every child blend.
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

// NRGBA quantizes c to an 8-bit straight-alpha color. Each channel is scaled
// by 255 and truncated, not rounded: 0.999 maps to 254. This matches the
// reference output byte for byte, so exported images are reproducible.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
		A: quantize(c.A),
	}
}

// quantize truncates a [0,1] channel to an 8-bit value. Out-of-domain floats
// are clamped first so the integer conversion is always defined.
func quantize(v float64) uint8 {
	n := int(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

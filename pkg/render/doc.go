// Package render converts generated color grids into on-disk image formats.
//
// The conversion applies the engine's export quantization (each channel
// scaled by 255 and truncated) and writes pixels in row-major order with
// straight (non-premultiplied) alpha, reproducing the reference output
// bit-for-bit for PNG.
//
// Supported formats: png (stdlib), bmp and tiff (golang.org/x/image).
package render

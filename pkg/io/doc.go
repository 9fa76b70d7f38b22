// Package io provides JSON import and export for seed patterns.
//
// # Overview
//
// Patterns are the only user-authored artifact of fractile, so their on-disk
// form is simple, hand-editable JSON designed for:
//
//   - Authoring seeds in any text editor
//   - Round-trip preservation: import, edit, export, and re-import identically
//   - Integration with external tools that produce pattern records
//
// # JSON Format
//
// One required top-level field, "pixels", a 2×2 nested array:
//
//	{
//	  "pixels": [
//	    [
//	      {"color": {"r": 0.2, "g": 0.4, "b": 0.6, "a": 1.0},
//	       "perm": [[0, 0], [0, 1], [1, 0], [1, 1]]},
//	      {"color": {"r": 0, "g": 0, "b": 0, "a": 0.1},
//	       "perm": [[0, 1], [0, 0], [1, 1], [1, 0]]}
//	    ],
//	    [ ... second row ... ]
//	  ]
//	}
//
// Each pixel carries a color (four floats r,g,b,a) and a perm: an array of
// exactly four (row, col) coordinate pairs mapping the seed's cells under
// that pixel's orientation.
//
// # Responsibility Split
//
// This package enforces shape only: two rows of two pixels, four pairs of two
// coordinates each. Anything shape-correct decodes successfully even when the
// numbers are nonsense. [fractal.Validate] is the single authority on color
// ranges and bijection invariants, and callers must run it on every imported
// pattern before generation.
//
// # Import and Export
//
// Use [ImportJSON]/[ExportJSON] for file paths, [ReadJSON]/[WriteJSON] for
// arbitrary readers and writers:
//
//	p, err := io.ImportJSON("seed.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := fractal.Validate(p); err != nil {
//	    log.Fatal(err)
//	}
package io

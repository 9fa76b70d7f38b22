// Package pipeline provides the core rendering pipeline for fractile.
//
// This package implements the complete load → validate → generate → encode
// pipeline shared by the CLI, the TUI editor, and the HTTP server. By
// centralizing this logic, all entry points behave identically and caching
// works the same everywhere.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read the seed pattern from a file or an inline record
//  2. Validate: enforce the pattern invariants and parameter bounds
//  3. Generate: expand the seed into the full-resolution color grid
//  4. Encode: quantize and encode the grid in the requested formats
//
// Generation is deterministic, so encoded artifacts are cached keyed by the
// pattern's wire form plus (iterations, decay, format); a full cache hit
// skips generation entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    PatternPath: "seed.json",
//	    Iterations:  9,
//	    Decay:       0.5,
//	    Formats:     []string{pipeline.FormatPNG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Server
// =============================================================================

const (
	// DefaultIterations is the default recursion depth (output side 2^n).
	DefaultIterations = 9

	// DefaultDecay is the default per-level blend decay, matching the
	// reference renderer.
	DefaultDecay = 0.5

	// MaxRecommendedIterations is the advisory depth ceiling. Memory grows as
	// 4^n; 11 yields ~4.19M cells. The pipeline warns above this but does not
	// refuse.
	MaxRecommendedIterations = 11
)

// Format constants for output formats.
const (
	FormatPNG  = render.FormatPNG
	FormatBMP  = render.FormatBMP
	FormatTIFF = render.FormatTIFF
)

// ValidFormats is the set of supported output formats.
var ValidFormats = render.ValidFormats

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Pattern source: a file path, or an inline pattern. When both are set
	// the inline pattern wins.
	PatternPath string           `json:"pattern_path,omitempty"`
	Pattern     *fractal.Pattern `json:"-"`

	// Generation parameters.
	Iterations int     `json:"iterations,omitempty"`
	Decay      float64 `json:"decay"`

	// Encode options.
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized).
	NoCache bool        `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// NewOptions returns Options primed with the package defaults. Prefer this
// over a zero literal: decay 0 is a meaningful value (blend collapses after
// the first doubling), so the defaults cannot be recovered from a zero field.
func NewOptions() Options {
	return Options{
		Iterations: DefaultIterations,
		Decay:      DefaultDecay,
		Formats:    []string{FormatPNG},
	}
}

// ValidateAndSetDefaults checks option consistency and fills empty fields.
// It must pass before Execute will run the pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PatternPath == "" && o.Pattern == nil {
		return errors.New(errors.ErrCodeInvalidParams, "no pattern given: set PatternPath or Pattern")
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if err := fractal.ValidateParams(o.Iterations, o.Decay); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"unknown format %q (must be png, bmp, or tiff)", f)
		}
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pattern is the validated seed pattern that was rendered.
	Pattern fractal.Pattern

	// PatternHash is the content hash of the pattern's wire form.
	PatternHash string

	// Grid is the generated color grid. Nil-sided (zero) when every requested
	// artifact was served from cache.
	Grid fractal.Grid

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts were cache hits.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Side         int // output side length (2^iterations)
	LoadTime     time.Duration
	GenerateTime time.Duration
	EncodeTime   time.Duration
}

// CacheInfo tracks cache hits per requested format.
type CacheInfo struct {
	// ArtifactHits maps format to whether it was served from cache.
	ArtifactHits map[string]bool
}

// AllHits reports whether every requested artifact came from cache.
func (ci CacheInfo) AllHits() bool {
	if len(ci.ArtifactHits) == 0 {
		return false
	}
	for _, hit := range ci.ArtifactHits {
		if !hit {
			return false
		}
	}
	return true
}

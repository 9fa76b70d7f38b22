package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fractile/fractile/pkg/cache"
	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
	"github.com/fractile/fractile/pkg/render"
)

// artifactTTL bounds how long cached artifacts live. Generation is
// deterministic so entries never go stale; the TTL only caps disk usage.
const artifactTTL = 30 * 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// CLI, TUI, and server all use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete load → validate → generate → encode pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if !opts.validated {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}
	}
	logger := r.logger(opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{ArtifactHits: make(map[string]bool)},
	}
	result.Stats.Side = 1 << opts.Iterations

	// Stage 1+2: load and validate
	loadStart := time.Now()
	p, err := r.Load(opts)
	if err != nil {
		return nil, err
	}
	result.Pattern = p
	result.Stats.LoadTime = time.Since(loadStart)

	wire, err := io.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal pattern: %w", err)
	}
	result.PatternHash = cache.Hash(wire)

	logger.Debug("loaded pattern",
		"hash", result.PatternHash[:12],
		"duration", result.Stats.LoadTime)

	// Probe the cache before paying for generation.
	missing := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(wire, opts.Iterations, opts.Decay, format)
		if data, ok := r.cacheGet(ctx, opts, key); ok {
			result.Artifacts[format] = data
			result.CacheInfo.ArtifactHits[format] = true
			logger.Debug("artifact cache hit", "format", format)
			continue
		}
		result.CacheInfo.ArtifactHits[format] = false
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		logger.Info("served from cache",
			"side", result.Stats.Side,
			"formats", len(opts.Formats))
		return result, nil
	}

	// Stage 3: generate
	genStart := time.Now()
	result.Grid = fractal.Generate(p, opts.Iterations, opts.Decay)
	result.Stats.GenerateTime = time.Since(genStart)

	logger.Info("generated grid",
		"side", result.Stats.Side,
		"iterations", opts.Iterations,
		"decay", opts.Decay,
		"duration", result.Stats.GenerateTime)

	// Stage 4: encode
	encStart := time.Now()
	for _, format := range missing {
		data, err := render.Encode(result.Grid, format)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		result.Artifacts[format] = data

		key := cache.ArtifactKey(wire, opts.Iterations, opts.Decay, format)
		if !opts.NoCache {
			if err := r.Cache.Set(ctx, key, data, artifactTTL); err != nil {
				logger.Warn("cache write failed", "format", format, "err", err)
			}
		}
	}
	result.Stats.EncodeTime = time.Since(encStart)

	logger.Info("encoded artifacts",
		"formats", len(missing),
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// Load resolves the pattern from the options and validates it. The returned
// pattern has passed both the structural gate (parse) and the invariant gate
// (validate); downstream stages treat it as trusted input.
func (r *Runner) Load(opts Options) (fractal.Pattern, error) {
	var p fractal.Pattern
	if opts.Pattern != nil {
		p = *opts.Pattern
	} else {
		imported, err := io.ImportJSON(opts.PatternPath)
		if err != nil {
			return p, err
		}
		p = imported
	}
	if err := fractal.Validate(p); err != nil {
		return p, err
	}
	return p, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet probes the cache, honoring NoCache and swallowing backend errors:
// a broken cache degrades to recomputation, never to a failed render.
func (r *Runner) cacheGet(ctx context.Context, opts Options, key string) ([]byte, bool) {
	if opts.NoCache {
		return nil, false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger(opts).Warn("cache read failed", "err", err)
		return nil, false
	}
	return data, ok
}

// logger picks the per-run logger when the options carry one.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

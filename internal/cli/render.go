package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fractile/fractile/pkg/pipeline"
)

// spinnerThreshold is the iteration depth from which a render is slow enough
// to warrant a progress spinner.
const spinnerThreshold = 9

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	iterations int      // recursion depth; output side = 2^iterations
	decay      float64  // per-level blend decay in [0,1]
	formats    []string // output formats: png, bmp, tiff
	noCache    bool     // bypass the artifact cache
}

// renderCommand creates the render command for generating images from seed
// pattern files.
//
// Defaults come from the user config (~/.config/fractile/config.toml) when
// present, otherwise from the pipeline package (iterations 9, decay 0.5,
// png). Flags override both.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [pattern.json]",
		Short: "Render a seed pattern to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("iterations") {
				opts.iterations = cfg.Iterations
			}
			if !cmd.Flags().Changed("decay") {
				opts.decay = *cfg.Decay
			}
			opts.formats = parseFormats(formatsStr, cfg.Formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", pipeline.DefaultIterations, "recursion depth (output side = 2^n, recommended 1-11)")
	cmd.Flags().Float64VarP(&opts.decay, "decay", "d", pipeline.DefaultDecay, "per-level blend decay in [0,1]")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), bmp, tiff (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// runRender executes the pipeline for the given pattern file and writes the
// requested artifacts next to it (or at --output).
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	if opts.iterations > pipeline.MaxRecommendedIterations {
		printWarning("iterations %d exceeds the recommended ceiling of %d; memory grows as 4^n",
			opts.iterations, pipeline.MaxRecommendedIterations)
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	popts := pipeline.NewOptions()
	popts.PatternPath = input
	popts.Iterations = opts.iterations
	popts.Decay = opts.decay
	popts.Formats = opts.formats
	popts.NoCache = opts.noCache
	popts.Logger = c.Logger

	var spin *Spinner
	if opts.iterations >= spinnerThreshold {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("rendering %d×%d grid...", 1<<opts.iterations, 1<<opts.iterations))
		spin.Start()
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d×%d grid", result.Stats.Side, result.Stats.Side))

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Generated %d file(s)", len(opts.formats))
	if result.CacheInfo.AllHits() {
		printDetail("all artifacts served from cache")
	}
	printKeyValue("Pattern", result.PatternHash[:12])
	return nil
}

// parseFormats parses the --format flag into a slice of output formats,
// falling back to the configured defaults when the flag is empty.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !pipeline.ValidFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'png', 'bmp', or 'tiff')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

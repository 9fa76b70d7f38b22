package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
)

// groupCommand creates the group command for visualizing the composition
// structure of a pattern's symmetries (debug tool).
func (c *CLI) groupCommand() *cobra.Command {
	var output string
	var dotOnly bool

	cmd := &cobra.Command{
		Use:   "group [pattern.json]",
		Short: "Render a Cayley diagram of a pattern's symmetries (debug tool)",
		Long: `Group computes the closure of the pattern's four symmetries under
composition and renders it as a Cayley diagram: one node per reachable
element, one edge per generator. Useful for understanding which orientations
a seed can produce at depth.`,
		Example: `  # SVG diagram of the reference pattern's group
  fractile init seed.json && fractile group seed.json -o group.svg

  # Raw Graphviz DOT on stdout
  fractile group seed.json --dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if err := fractal.Validate(p); err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			syms := p.Symmetries()
			closure := fractal.Closure(syms[:])
			logger.Debug("computed closure", "elements", len(closure))

			if dotOnly {
				fmt.Print(fractal.CayleyDOT(p))
				return nil
			}

			svg, err := fractal.RenderCayleySVG(cmd.Context(), p)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], ".json") + "_group.svg"
			}
			if err := os.WriteFile(output, svg, 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			printSuccess("Cayley diagram generated")
			printKeyValue("Elements", fmt.Sprintf("%d", len(closure)))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default <pattern>_group.svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print Graphviz DOT to stdout instead of rendering")

	return cmd
}

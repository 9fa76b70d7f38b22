package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
)

// validateCommand creates the validate command for checking pattern files.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pattern.json]",
		Short: "Check a pattern file against the engine's invariants",
		Long: `Validate reads a pattern file and checks, in order: color channels in
[0,1], mapping coordinates in {0,1}, duplicate mapping destinations, and
mapping completeness. The first violated rule is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := io.ImportJSON(args[0])
			if err != nil {
				printError("Could not read pattern")
				return err
			}

			if err := fractal.Validate(p); err != nil {
				printError("Pattern is invalid")
				printKeyValue("Rule", string(apperrors.GetCode(err)))
				printDetail("%s", apperrors.UserMessage(err))
				return err
			}

			printSuccess("Pattern is valid")
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					px := p[y][x]
					printDetail("(%d,%d) rgba(%.3g, %.3g, %.3g, %.3g) %s",
						y, x, px.Color.R, px.Color.G, px.Color.B, px.Color.A, px.Sym)
				}
			}
			return nil
		},
	}
}

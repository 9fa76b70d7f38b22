package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
)

// initCommand creates the init command for writing the reference seed.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in reference seed pattern to a file",
		Long: `Init writes the reference seed pattern (the blue/brown/black seed the
engine ships with) as a pattern JSON file, ready for editing with a text
editor or the edit command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pattern.json"
			if len(args) == 1 {
				path = args[0]
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			if err := io.ExportJSON(fractal.Reference(), path); err != nil {
				return err
			}

			printSuccess("Wrote reference pattern")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
)

// editCommand creates the edit command launching the interactive pattern editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [pattern.json]",
		Short: "Edit a seed pattern interactively",
		Long: `Edit opens a terminal editor for seed patterns: select cells, adjust
color channels, cycle symmetries, and tune iterations/decay with a live
preview. If the file does not exist it is seeded with the reference pattern
and created on first save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pattern.json"
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			p := fractal.Reference()
			if _, err := os.Stat(path); err == nil {
				loaded, err := io.ImportJSON(path)
				if err != nil {
					return err
				}
				if err := fractal.Validate(loaded); err != nil {
					return fmt.Errorf("cannot edit invalid pattern: %w", err)
				}
				p = loaded
			}

			model := newEditorModel(path, p, cfg.Iterations, *cfg.Decay)
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}
}

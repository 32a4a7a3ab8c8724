package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dotswarm/dotswarm/pkg/board"
)

// runCommand creates the run command for the interactive terminal view.
func (c *CLI) runCommand() *cobra.Command {
	var (
		specPath string
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "run [dataset.csv]",
		Short: "Explore the board interactively in the terminal",
		Long: `Explore the board interactively in the terminal.

The run command opens a full-screen view of the board. Circles settle live
at the simulation's frame rate. Click and drag a circle to move it, press
1/2/3 to select a filter attribute and the arrow keys to move its
threshold. Filtered-out circles stay in place but fade.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(args[0], specPath)
			if err != nil {
				return err
			}
			cfg := board.DefaultConfig()
			cfg.Seed = seed
			b, err := board.New(d, cfg)
			if err != nil {
				return err
			}

			c.Logger.Debug("starting interactive view", "rows", len(d.Rows), "groups", len(d.Groups()))

			p := tea.NewProgram(
				NewBoardModel(b),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("interactive view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "column spec path (default: dataset path with .toml extension)")
	cmd.Flags().Uint64Var(&seed, "seed", board.DefaultSeed, "layout seed")

	return cmd
}

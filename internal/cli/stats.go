package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dotswarm/dotswarm/pkg/dataset"
)

// statsCommand creates the stats command for dataset inspection.
func (c *CLI) statsCommand() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "stats [dataset.csv]",
		Short: "Summarize a dataset without running the simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(args[0], specPath)
			if err != nil {
				return err
			}
			printDatasetStats(args[0], d)
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "column spec path (default: dataset path with .toml extension)")

	return cmd
}

func printDatasetStats(path string, d *dataset.Dataset) {
	fmt.Println(StyleTitle.Render("Dataset"))
	printKeyValue("file", path)
	printKeyValue("rows", fmt.Sprintf("%d", len(d.Rows)))
	printKeyValue("groups", strings.Join(d.Groups(), ", "))
	printKeyValue("categories", fmt.Sprintf("%d", len(d.Categories())))
	fmt.Println()

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := [][]string{}

	size := d.SizeStats()
	rows = append(rows, []string{d.Spec.Size, formatStat(size.Min), formatStat(size.Mean), formatStat(size.Max)})
	names := d.FilterNames()
	for i := 0; i < dataset.FilterCount; i++ {
		s := d.FilterStats(i)
		rows = append(rows, []string{names[i], formatStat(s.Min), formatStat(s.Mean), formatStat(s.Max)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Column", "Min", "Mean", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	fmt.Println(t.Render())
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

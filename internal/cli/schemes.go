package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/skyf0l/basecracker/pkg/scheme"
)

func (c *CLI) schemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the supported schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, schemeTable(scheme.Default().Infos()))
			return nil
		},
	}
}

func schemeTable(infos []scheme.Info) string {
	rows := make([][]string, 0, len(infos))
	for _, in := range infos {
		alphabet := in.Alphabet
		if in.Complement != "" {
			alphabet += " (pad " + in.Complement + ")"
		}
		rows = append(rows, []string{in.ID, strings.Join(in.Aliases, ", "), in.Family.String(), truncatePreview(alphabet, 40)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Base", "Names", "Family", "Alphabet").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

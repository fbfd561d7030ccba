package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/style"
)

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List construction styles and presentation presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStyles(cmd.OutOrStdout())
		},
	}
}

func runStyles(w io.Writer) error {
	var rows [][]string
	for _, s := range cabinet.Styles() {
		kick, back := "no", "full height"
		if s.HasToeKick() {
			kick = "yes"
		}
		if s.InsetBack() {
			back = "inset"
		}
		rows = append(rows, []string{s.String(), kick, back})
	}
	fmt.Fprintln(w, styleTitle.Render("Construction styles"))
	fmt.Fprintln(w, newTable("Style", "Toe kick", "Back").Rows(rows...).String())

	rows = rows[:0]
	for _, name := range style.Names() {
		p, _ := style.Lookup(name)
		rows = append(rows, []string{
			name,
			swatch(p.Fill) + " " + orNone(p.Fill),
			orNone(p.Stroke),
			fmt.Sprintf("%.1f", p.StrokeWidth),
		})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Presentation presets"))
	fmt.Fprintln(w, newTable("Preset", "Fill", "Stroke", "Width").Rows(rows...).String())
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

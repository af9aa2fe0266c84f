package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/locale"
)

// sourcesCommand creates the command listing fatwa providers.
func (c *CLI) sourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the fatwa providers per language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			catalog, err := client.Sources(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sourcesTable(catalog, c.Config.Provider))
			return nil
		},
	}
}

// sourcesTable renders the catalog with the first provider of each
// language (the default) or the configured one marked.
func sourcesTable(catalog backend.SourceCatalog, selected string) string {
	var rows [][]string
	for _, lang := range []locale.Lang{locale.English, locale.Arabic} {
		for i, opt := range catalog.For(lang) {
			mark := ""
			if opt.ID == selected || (selected == "" && i == 0) {
				mark = iconSuccess
			}
			rows = append(rows, []string{mark, lang.String(), opt.ID, opt.Name})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Lang", "ID", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return styleIconSuccess
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

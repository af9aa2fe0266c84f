package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/locale"
)

// translationsCommand creates the command printing UI strings.
func (c *CLI) translationsCommand() *cobra.Command {
	var builtin bool

	cmd := &cobra.Command{
		Use:   "translations",
		Short: "Print the UI strings for the configured language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := c.Config.Lang()
			catalog := locale.Builtin(lang)
			if !builtin {
				ctx := cmd.Context()
				client, err := c.newClient(ctx)
				if err != nil {
					return err
				}
				remote, err := client.Translations(ctx, lang)
				if err != nil {
					return err
				}
				catalog = catalog.Merge(remote)
			}

			keys := make([]string, 0, len(catalog))
			for k := range catalog {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				printKeyValue(cmd.OutOrStdout(), k, catalog[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&builtin, "builtin", false, "print the built-in strings without contacting the server")
	return cmd
}

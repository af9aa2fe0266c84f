package cli

import (
	"github.com/spf13/cobra"
)

// historyCommand creates the conversation history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the server-side conversation history",
	}
	cmd.AddCommand(c.historyClearCommand())
	return cmd
}

func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the conversation so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			msg, err := client.ClearHistory(ctx, c.Config.Lang())
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s", msg)
			printDetail(cmd.OutOrStdout(), "Server: %s", client.Server())
			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// chatCommand creates the interactive chat command.
func (c *CLI) chatCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Long: `Open a full-screen chat with the fatwa backend.

Keys:
  enter    ask the question
  ctrl+l   switch between English and Arabic
  ctrl+t   switch between light and dark theme
  ctrl+b   show or hide the provider list
  ctrl+p   select the next provider
  ctrl+r   clear the conversation history
  esc      quit

In Arabic mode, Latin words typed in Arabizi (e.g. "salaam", "7abibi") are
converted to Arabic script when followed by a space.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChat(cmd.Context(), logFile)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the chat is open")
	return cmd
}

func (c *CLI) runChat(ctx context.Context, logFile string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := c.newClient(ctx)
	if err != nil {
		return err
	}

	restore, err := redirectLog(c.Logger, logFile)
	if err != nil {
		return err
	}
	defer restore()

	ch := newChanges()
	session := c.newSession(client, true, ch.notify)
	model := newChatModel(ctx, session, ch, c.viewOptions(c.Config.Width), c.Logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

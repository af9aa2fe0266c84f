package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the command printing shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for fatwa to standard output.

Load it for the current shell:

  bash        source <(fatwa completion bash)
  zsh         source <(fatwa completion zsh)
  fish        fatwa completion fish | source
  powershell  fatwa completion powershell | Out-String | Invoke-Expression

To load it in every session, write the script where your shell looks for
completions, for example:

  fatwa completion bash > /etc/bash_completion.d/fatwa
  fatwa completion zsh > "${fpath[1]}/_fatwa"
  fatwa completion fish > ~/.config/fish/completions/fatwa.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

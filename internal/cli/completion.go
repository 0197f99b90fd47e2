package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cardforge.

To load completions:

Bash:
  $ source <(cardforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cardforge completion bash > /etc/bash_completion.d/cardforge
  # macOS:
  $ cardforge completion bash > $(brew --prefix)/etc/bash_completion.d/cardforge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cardforge completion zsh > "${fpath[1]}/_cardforge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cardforge completion fish | source

  # To load completions for each session, execute once:
  $ cardforge completion fish > ~/.config/fish/completions/cardforge.fish

PowerShell:
  PS> cardforge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cardforge completion powershell > cardforge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		PersistentPreRunE:     func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(output, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(output)
			case "fish":
				return cmd.Root().GenFishCompletion(output, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(output)
			}
			return nil
		},
	}

	return cmd
}

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repometa/pkg/config"
)

// cacheBackends are the values offered for --cache-backend completion.
var cacheBackends = []string{config.BackendFile, config.BackendRedis, config.BackendMemory, config.BackendNone}

// registerFlagCompletions adds value completion for flags with a fixed set of
// choices or file arguments.
func registerFlagCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("cache-backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return cacheBackends, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.MarkPersistentFlagFilename("config", "toml")
	_ = root.MarkPersistentFlagDirname("cache-dir")
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for repometa.

To load completions:

Bash:
  $ source <(repometa completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ repometa completion bash > /etc/bash_completion.d/repometa
  # macOS:
  $ repometa completion bash > $(brew --prefix)/etc/bash_completion.d/repometa

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ repometa completion zsh > "${fpath[1]}/_repometa"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ repometa completion fish | source

  # To load completions for each session, execute once:
  $ repometa completion fish > ~/.config/fish/completions/repometa.fish

PowerShell:
  PS> repometa completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> repometa completion powershell > repometa.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

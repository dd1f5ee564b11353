package cli

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// completionGenerators maps a shell name to the cobra generator for it.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command, which writes a shell
// completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionGenerators))
	for name := range completionGenerators {
		shells = append(shells, name)
	}
	sort.Strings(shells)

	return &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate a shell completion script",
		Example: `  source <(dxfsvg completion bash)
  dxfsvg completion zsh > "${fpath[1]}/_dxfsvg"
  dxfsvg completion fish > ~/.config/fish/completions/dxfsvg.fish
  dxfsvg completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), c.Out)
		},
	}
}

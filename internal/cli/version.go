package cli

import (
	"fmt"

	"github.com/ariel-frischer/relbump/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for relbump",
	Example: `  # Show version info
  relbump version

  # Plain output (for scripts)
  relbump version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		printVersion(cmd, plain)
	},
}

func init() {
	versionCmd.GroupID = GroupInspect
	rootCmd.AddCommand(versionCmd)
}

// printVersion prints the build details, one "label: value" line each.
func printVersion(cmd *cobra.Command, plain bool) {
	out := cmd.OutOrStdout()
	if plain {
		fmt.Fprintf(out, "relbump %s\n", build.Version)
		for _, kv := range build.Info()[1:] {
			fmt.Fprintf(out, "%s: %s\n", kv[0], kv[1])
		}
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan("relbump"), build.Version)
	for _, kv := range build.Info()[1:] {
		value := kv[1]
		if kv[0] == "commit" {
			value = truncateCommit(value)
		}
		fmt.Fprintf(out, "  %s %s\n", yellow(fmt.Sprintf("%-9s", kv[0]+":")), value)
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

package cli

import (
	"fmt"
	"strings"

	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/ariel-frischer/relbump/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyStatuses = []string{
	history.StatusReleased,
	history.StatusDryRun,
	history.StatusAborted,
	history.StatusFailed,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past relbump runs",
	Long: `View a log of relbump runs with timestamp, outcome, versions, exit code
and duration. Entries are kept in <state_dir>/history.yaml.`,
	Example: `  relbump history
  relbump history -n 5
  relbump history --status failed
  relbump history --clear`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runHistoryWithStateDir(cmd, cfg.StateDir)
	},
}

func init() {
	historyCmd.GroupID = GroupInspect
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("status", "s", "", "Filter by outcome ("+strings.Join(historyStatuses, ", ")+")")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().BoolP("clear", "c", false, "Clear all history")
}

// runHistoryWithStateDir runs the history command with a custom state directory.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	statusFilter, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.NewArgumentError(fmt.Sprintf("limit must be positive, got %d", limit))
	}
	if statusFilter != "" && !validStatus(statusFilter) {
		return clierrors.NewArgumentError(fmt.Sprintf("unknown status %q", statusFilter),
			"Valid statuses: "+strings.Join(historyStatuses, ", "))
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := history.Filter(histFile.Entries, statusFilter, limit)
	if len(entries) == 0 {
		if statusFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s runs recorded.\n", statusFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

func validStatus(s string) bool {
	for _, st := range historyStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		status := fmt.Sprintf("%-8s", entry.Status)
		switch entry.Status {
		case history.StatusReleased:
			status = green(status)
		case history.StatusFailed:
			status = red(status)
		case history.StatusAborted:
			status = yellow(status)
		}

		versions := "-"
		if entry.OldVersion != "" || entry.NewVersion != "" {
			versions = fmt.Sprintf("%s -> %s", orDash(entry.OldVersion), orDash(entry.NewVersion))
		}

		fmt.Fprintf(out, "%s  %s  %-20s  exit=%d  %s\n",
			cyan(timestamp),
			status,
			versions,
			entry.ExitCode,
			entry.Duration,
		)

		switch {
		case entry.Error != "":
			fmt.Fprintf(out, "    %s\n", dim(entry.Error))
		case entry.Reason != "":
			fmt.Fprintf(out, "    %s\n", dim(entry.Reason))
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

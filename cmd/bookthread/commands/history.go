// ABOUTME: CLI command to list recently posted chunks
// ABOUTME: Reads the SQLite post log, newest first
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent posts",
		Long: `List recently posted chunks from the local post log.

Examples:
  bookthread history
  bookthread history --limit 50`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of posts to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	posts, err := a.postLog.RecentPosts(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPARAGRAPH\tTHREAD\tTEXT\tURI")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			formatTime(p.CreatedAt), p.ParagraphIndex, p.ThreadIndex+1, truncate(p.Text, 40), p.URI)
	}
	return w.Flush()
}

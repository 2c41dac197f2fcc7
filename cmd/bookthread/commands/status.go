// ABOUTME: CLI command to show reading progress
// ABOUTME: Prints the cursor, book length, last post, and post-log size
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statusRefresh bool
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show reading progress",
		Long: `Show the saved paragraph, book length, and last post.

Examples:
  bookthread status
  bookthread status --refresh   # download the book again`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	cmd.Flags().BoolVar(&statusRefresh, "refresh", false, "Discard the cached book and download it again")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if syncer, ok := a.state.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			a.logger.Warn("state sync failed, showing local copy", "error", err)
		}
	}
	if statusRefresh {
		if _, err := a.source.Refresh(ctx); err != nil {
			return fmt.Errorf("refreshing book: %w", err)
		}
	}

	status, err := a.publisher.Status(ctx)
	if err != nil {
		return err
	}
	count, err := a.postLog.CountPosts(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	state := status.State
	fmt.Fprintf(out, "Source:     %s\n", a.cfg.SourceURL)
	fmt.Fprintf(out, "Paragraph:  %d of %d (%s)\n", state.CurrentParagraph, status.BookLength,
		progressPercent(state.CurrentParagraph, status.BookLength))
	if state.CurrentParagraph >= status.BookLength {
		fmt.Fprintln(out, "Finished:   yes")
	}
	if state.LastPostAt != nil {
		fmt.Fprintf(out, "Last post:  %s (%s)\n", state.LastPostURI, formatTime(*state.LastPostAt))
	} else {
		fmt.Fprintln(out, "Last post:  never")
	}
	fmt.Fprintf(out, "Posts:      %d logged\n", count)
	fmt.Fprintf(out, "Post log:   %s\n", a.postLog.Path())
	fmt.Fprintf(out, "State:      %s backend\n", a.cfg.StateBackend)

	return nil
}

// ABOUTME: CLI command to post the next episode
// ABOUTME: Supports a dry run and an explicit starting paragraph
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/bookthread/internal/core"
)

var (
	postDryRun    bool
	postParagraph int
)

// NewPostCmd creates the post command
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post the next episode as Bluesky threads",
		Long: `Post the next episode, starting at the saved paragraph.

Progress is saved after every thread, so a failed run resumes at the
first paragraph that was not fully posted.

Examples:
  bookthread post
  bookthread post --dry-run
  bookthread post --paragraph 120`,
		Args: cobra.NoArgs,
		RunE: runPost,
	}

	cmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show what would be posted without posting")
	cmd.Flags().IntVar(&postParagraph, "paragraph", 0, "0-based paragraph index to start from (overrides saved progress)")

	return cmd
}

func runPost(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, !postDryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := core.RunOptions{DryRun: postDryRun}
	if cmd.Flags().Changed("paragraph") {
		if postParagraph < 0 {
			return fmt.Errorf("paragraph must not be negative, got %d", postParagraph)
		}
		n := postParagraph
		opts.Paragraph = &n
	}

	result, runErr := a.publisher.Run(cmd.Context(), opts)
	out := cmd.OutOrStdout()

	if result != nil {
		switch {
		case result.Finished:
			fmt.Fprintln(out, "Reached end of book!")
		case result.DryRun:
			ep := result.Episode
			fmt.Fprintf(out, "Dry run: paragraphs %d-%d, %d posts in %d threads\n\n",
				ep.Start, ep.Next()-1, len(ep.Chunks), len(ep.Threads))
			renderThreads(out, ep.Threads, a.splitter.MaxGraphemes())
			fmt.Fprintf(out, "Would advance to paragraph %d\n", result.Next)
		default:
			fmt.Fprintf(out, "Posted %d posts in %d threads. Next paragraph: %d\n",
				len(result.Posts), result.ThreadsPosted, result.Next)
			if len(result.Posts) > 0 {
				fmt.Fprintf(out, "Last post: %s\n", result.Posts[len(result.Posts)-1].URI)
			}
		}
	}

	return runErr
}

// ABOUTME: CLI command to move the reading cursor
// ABOUTME: Lets an operator skip ahead or replay from an earlier paragraph
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSeekCmd creates the seek command
func NewSeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seek <paragraph>",
		Short: "Set the next paragraph to post",
		Long: `Set the 0-based paragraph index the next run starts from.

Examples:
  bookthread seek 0     # start over
  bookthread seek 250`,
		Args: cobra.ExactArgs(1),
		RunE: runSeek,
	}

	return cmd
}

func runSeek(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("paragraph must be a number, got %q", args[0])
	}

	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.publisher.Seek(cmd.Context(), n)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Next paragraph: %d\n", state.CurrentParagraph)
	return nil
}

// ABOUTME: Root command, global flags, and logger construction
// ABOUTME: Every subcommand hangs off NewRootCmd
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

const banner = `
██████╗  ██████╗  ██████╗ ██╗  ██╗
██╔══██╗██╔═══██╗██╔═══██╗██║ ██╔╝
██████╔╝██║   ██║██║   ██║█████╔╝
██╔══██╗██║   ██║██║   ██║██╔═██╗
██████╔╝╚██████╔╝╚██████╔╝██║  ██╗
╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝ thread`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookthread",
		Short: "Post a public-domain book to Bluesky, one episode at a time",
		Long: banner + `

bookthread reads a Project Gutenberg text and posts it to Bluesky as
reply threads, picking up where the last run stopped.

Each run posts one episode: the next paragraph, plus any paragraphs
that follow one ending in a colon. Paragraphs are split into posts of
at most 300 graphemes and grouped into threads of about three, without
breaking a thread inside an open quotation.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewPostCmd(),
		NewPreviewCmd(),
		NewStatusCmd(),
		NewSeekCmd(),
		NewHistoryCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds the structured logger for a command run
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

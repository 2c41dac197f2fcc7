// ABOUTME: CLI command to split arbitrary text without posting
// ABOUTME: Reads text from arguments, a file, or stdin
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/bookthread/internal/source"
	"github.com/harper/bookthread/internal/splitter"
)

var (
	previewFile string
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [text]",
		Short: "Show how text would be split into posts and threads",
		Long: `Split text into posts and threads and print them with grapheme counts.
Nothing is posted.

Examples:
  bookthread preview "It was a dark and stormy night."
  bookthread preview --file chapter1.txt
  cat chapter1.txt | bookthread preview`,
		RunE: runPreview,
	}

	cmd.Flags().StringVarP(&previewFile, "file", "f", "", "Read text from a file")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	text, err := previewText(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to preview")
	}

	split := splitter.New(cfg.MaxGraphemes, cfg.MaxThreadLength)
	out := cmd.OutOrStdout()

	ep := split.PlanEpisode(0, source.ExtractParagraphs(text))
	fmt.Fprintf(out, "%d paragraphs, %d posts in %d threads\n\n", len(ep.Paragraphs), len(ep.Chunks), len(ep.Threads))
	renderThreads(out, ep.Threads, split.MaxGraphemes())
	return nil
}

func previewText(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case previewFile != "":
		data, err := os.ReadFile(previewFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", previewFile, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

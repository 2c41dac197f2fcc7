// ABOUTME: Terminal rendering of planned threads for preview and dry runs
// ABOUTME: Styled with lipgloss; styles degrade to plain text off a terminal
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/bookthread/internal/splitter"
)

var (
	threadHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	countStyle        = lipgloss.NewStyle().Faint(true)
	overLimitStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	chunkStyle        = lipgloss.NewStyle().PaddingLeft(2).Width(78)
)

// renderThreads writes each thread with per-post grapheme counts
func renderThreads(w io.Writer, threads [][]string, maxGraphemes int) {
	for i, thread := range threads {
		header := fmt.Sprintf("Thread %d of %d (%d posts)", i+1, len(threads), len(thread))
		fmt.Fprintln(w, threadHeaderStyle.Render(header))

		for j, chunk := range thread {
			n := splitter.CountGraphemes(chunk)
			label := fmt.Sprintf("[%d/%d] %d/%d graphemes", j+1, len(thread), n, maxGraphemes)
			if n > maxGraphemes {
				fmt.Fprintln(w, overLimitStyle.Render(label+" (single word over limit)"))
			} else {
				fmt.Fprintln(w, countStyle.Render(label))
			}
			fmt.Fprintln(w, chunkStyle.Render(chunk))
		}
		fmt.Fprintln(w)
	}
}

// ABOUTME: Word packer for sentences that exceed the post length on their own
// ABOUTME: Greedily packs whitespace-separated words into bounded fragments
package splitter

import "strings"

// SplitOnWords packs the words of text into fragments of at most
// MaxGraphemes graphemes. A single word longer than the budget is
// emitted whole as its own fragment; words are never cut.
func (s *Splitter) SplitOnWords(text string) []string {
	var fragments []string
	current := ""

	for _, word := range strings.Fields(text) {
		trial := word
		if current != "" {
			trial = current + " " + word
		}

		if CountGraphemes(trial) <= s.maxGraphemes {
			current = trial
			continue
		}

		if current != "" {
			fragments = append(fragments, current)
		}
		current = word
	}

	if current != "" {
		fragments = append(fragments, current)
	}

	return fragments
}

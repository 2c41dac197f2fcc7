// ABOUTME: Grapheme counting used as the universal length metric for posts
// ABOUTME: Counts extended grapheme clusters rather than bytes or runes
package splitter

import "github.com/rivo/uniseg"

// CountGraphemes returns the number of user-perceived characters in text.
// Combining sequences, flags, and ZWJ emoji each count as one.
func CountGraphemes(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

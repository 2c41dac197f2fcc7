// ABOUTME: Book is the ordered list of paragraphs a run reads from
// ABOUTME: Collects an episode, pulling in paragraphs that continue after a colon
package source

import "strings"

// Book is an immutable sequence of paragraphs
type Book struct {
	paragraphs []string
}

// NewBook wraps already extracted paragraphs
func NewBook(paragraphs []string) *Book {
	return &Book{paragraphs: paragraphs}
}

// Len returns the number of paragraphs
func (b *Book) Len() int {
	return len(b.paragraphs)
}

// Paragraph returns paragraph i, or false if i is out of range
func (b *Book) Paragraph(i int) (string, bool) {
	if i < 0 || i >= len(b.paragraphs) {
		return "", false
	}
	return b.paragraphs[i], true
}

// CollectEpisode returns the paragraphs posted together starting at
// start. A paragraph ending in a colon introduces the next one, so
// collection continues until a paragraph that doesn't.
func (b *Book) CollectEpisode(start int) []string {
	var episode []string
	for i := start; i >= 0 && i < len(b.paragraphs); i++ {
		p := b.paragraphs[i]
		episode = append(episode, p)
		if !endsWithColon(p) {
			break
		}
	}
	return episode
}

func endsWithColon(text string) bool {
	return strings.HasSuffix(strings.TrimRight(text, " \t\r\n"), ":")
}

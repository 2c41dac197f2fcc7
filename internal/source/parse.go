// ABOUTME: Gutenberg wrapper stripping and paragraph extraction
// ABOUTME: Paragraphs are blank-line separated and whitespace-normalized
package source

import (
	"errors"
	"regexp"
	"strings"
)

const (
	startMarker = "*** START OF THE PROJECT GUTENBERG EBOOK"
	endMarker   = "*** END OF THE PROJECT GUTENBERG EBOOK"
)

var (
	ErrMissingStartMarker = errors.New("could not find Gutenberg start marker")
	ErrMissingEndMarker   = errors.New("could not find Gutenberg end marker")
	ErrMalformed          = errors.New("malformed Gutenberg text")
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// StripGutenbergWrapper returns the text between the start marker line
// and the end marker, dropping the license header and footer.
func StripGutenbergWrapper(text string) (string, error) {
	start := strings.Index(text, startMarker)
	if start == -1 {
		return "", ErrMissingStartMarker
	}
	lineEnd := strings.Index(text[start:], "\n")
	if lineEnd == -1 {
		return "", ErrMalformed
	}
	bodyStart := start + lineEnd + 1

	end := strings.Index(text, endMarker)
	if end == -1 {
		return "", ErrMissingEndMarker
	}
	if end < bodyStart {
		return "", ErrMalformed
	}

	return text[bodyStart:end], nil
}

// ExtractParagraphs splits text on blank lines and collapses the
// whitespace inside each paragraph to single spaces.
func ExtractParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// ABOUTME: Lexical quote-balance tracking across a chunk sequence
// ABOUTME: Ignores apostrophes that look like contractions or possessives
package splitter

import (
	"strings"
	"unicode"
)

// HasUnclosedQuote reports whether text leaves a double or single
// quotation open. Straight quotes only; curly quotes are not tracked.
func HasUnclosedQuote(text string) bool {
	runes := []rune(text)
	inDouble := false
	inSingle := false

	for i, r := range runes {
		switch r {
		case '"':
			inDouble = !inDouble
		case '\'':
			letterBefore := i > 0 && isLetterASCII(runes[i-1])
			hasNext := i+1 < len(runes)
			letterAfter := hasNext && isLetterASCII(runes[i+1])

			if letterBefore && letterAfter {
				continue // don't
			}
			if letterBefore && (!hasNext || isClosingContext(runes[i+1])) {
				continue // Johnson's, sailors'
			}
			inSingle = !inSingle
		}
	}

	return inDouble || inSingle
}

// IsInsideQuote evaluates the quote state over chunks[0..endIndex] joined
// with single spaces. The prefix always starts at the first chunk.
func IsInsideQuote(chunks []string, endIndex int) bool {
	if endIndex >= len(chunks) {
		endIndex = len(chunks) - 1
	}
	if endIndex < 0 {
		return false
	}
	return HasUnclosedQuote(strings.Join(chunks[:endIndex+1], " "))
}

func isLetterASCII(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isClosingContext(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?':
		return true
	}
	return false
}

// ABOUTME: Sentence splitter with abbreviation and lowercase-continuation heuristics
// ABOUTME: Splits a paragraph on terminal punctuation followed by a space or end of text
package splitter

import (
	"strings"
	"unicode"
)

// abbreviations never end a sentence when followed by a period
var abbreviations = map[string]bool{
	"Mr": true, "Mrs": true, "Ms": true, "Dr": true, "Prof": true, "Rev": true, "Hon": true, "Sr": true, "Jr": true,
	"St": true, "Mt": true, "Ft": true, "Lt": true, "Gen": true, "Col": true, "Capt": true, "Sgt": true,
	"vs": true, "etc": true, "al": true, "eg": true, "ie": true, "viz": true, "cf": true,
	"Jan": true, "Feb": true, "Mar": true, "Apr": true, "Jun": true, "Jul": true, "Aug": true,
	"Sep": true, "Sept": true, "Oct": true, "Nov": true, "Dec": true,
	"vol": true, "Vol": true, "no": true, "No": true, "pp": true, "ed": true, "Ed": true,
}

// SplitIntoSentences splits text into trimmed sentences, keeping the
// terminal punctuation with each sentence. Text without terminal
// punctuation comes back as a single sentence.
func SplitIntoSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		atEnd := i+1 >= len(runes)
		if !atEnd && runes[i+1] != ' ' {
			continue
		}

		if r == '.' {
			if isAbbreviation(current.String()) {
				continue
			}
			// ". x" reads as a continuation, not a new sentence
			if !atEnd && i+2 < len(runes) && isLowerASCII(runes[i+2]) {
				continue
			}
		}

		sentences = append(sentences, strings.TrimSpace(current.String()))
		current.Reset()
		if !atEnd {
			i++ // separating space
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

// isAbbreviation reports whether buf ends with a known abbreviation and a period
func isAbbreviation(buf string) bool {
	if !strings.HasSuffix(buf, ".") {
		return false
	}
	body := strings.TrimSuffix(buf, ".")
	start := len(body)
	for start > 0 {
		r := rune(body[start-1])
		if !isWordByte(r) {
			break
		}
		start--
	}
	if start == len(body) {
		return false
	}
	return abbreviations[body[start:]]
}

// isWordByte matches the ASCII word class [A-Za-z0-9_]
func isWordByte(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func isLowerASCII(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// ABOUTME: Chunk assembler packing sentences into post-sized chunks
// ABOUTME: Falls back to word packing for sentences longer than one post
package splitter

// SplitIntoPostChunks splits a paragraph into ordered chunks that each fit
// in one post. Boundaries fall between sentences where possible and
// between words otherwise.
func (s *Splitter) SplitIntoPostChunks(paragraph string) []string {
	if CountGraphemes(paragraph) <= s.maxGraphemes {
		return []string{paragraph}
	}

	var chunks []string
	current := ""

	for _, sentence := range SplitIntoSentences(paragraph) {
		if CountGraphemes(sentence) > s.maxGraphemes {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, s.SplitOnWords(sentence)...)
			continue
		}

		trial := sentence
		if current != "" {
			trial = current + " " + sentence
		}

		if CountGraphemes(trial) <= s.maxGraphemes {
			current = trial
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}
		current = sentence
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

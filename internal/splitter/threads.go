// ABOUTME: Thread grouper partitioning chunks into bounded reply-chains
// ABOUTME: Defers a break that would split an open quotation, up to a hard ceiling
package splitter

// GroupChunksIntoThreads partitions chunks into consecutive threads of
// MaxThreadLength chunks. When the break point falls inside an open
// quotation the thread keeps growing until the quote closes or the
// thread reaches ThreadCeiling, whichever comes first. An empty input
// yields no threads.
func (s *Splitter) GroupChunksIntoThreads(chunks []string) [][]string {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) <= s.maxThreadLength {
		return [][]string{append([]string(nil), chunks...)}
	}

	var threads [][]string
	var current []string
	last := len(chunks) - 1

	for i, chunk := range chunks {
		current = append(current, chunk)

		if len(current) < s.maxThreadLength {
			continue
		}

		if i == last || !IsInsideQuote(chunks, i) || len(current) >= s.ThreadCeiling() {
			threads = append(threads, current)
			current = nil
		}
	}

	if len(current) > 0 {
		threads = append(threads, current)
	}

	return threads
}

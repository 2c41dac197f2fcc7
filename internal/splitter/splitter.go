// ABOUTME: Splitter turns book paragraphs into post-sized chunks and reply threads
// ABOUTME: Holds the length limits shared by the chunk assembler and thread grouper
package splitter

const (
	// MaxGraphemes is the platform post-length cap in user-perceived characters
	MaxGraphemes = 300

	// MaxThreadLength is the nominal number of posts per reply-chain
	MaxThreadLength = 3

	// ThreadOverflow is how far a thread may grow past MaxThreadLength
	// while its natural break point sits inside an open quotation
	ThreadOverflow = 2
)

// Splitter carries the limits used by the segmentation pipeline.
// The zero value is not usable; use New or Default.
type Splitter struct {
	maxGraphemes    int
	maxThreadLength int
}

// New creates a Splitter with custom limits. Non-positive values fall back to the defaults.
func New(maxGraphemes, maxThreadLength int) *Splitter {
	if maxGraphemes <= 0 {
		maxGraphemes = MaxGraphemes
	}
	if maxThreadLength <= 0 {
		maxThreadLength = MaxThreadLength
	}
	return &Splitter{
		maxGraphemes:    maxGraphemes,
		maxThreadLength: maxThreadLength,
	}
}

// Default returns a Splitter using MaxGraphemes and MaxThreadLength
func Default() *Splitter {
	return New(MaxGraphemes, MaxThreadLength)
}

// MaxGraphemes returns the per-chunk grapheme budget
func (s *Splitter) MaxGraphemes() int {
	return s.maxGraphemes
}

// MaxThreadLength returns the nominal thread size
func (s *Splitter) MaxThreadLength() int {
	return s.maxThreadLength
}

// ThreadCeiling returns the hard upper bound on thread size
func (s *Splitter) ThreadCeiling() int {
	return s.maxThreadLength + ThreadOverflow
}

// SplitIntoPostChunks splits a paragraph using the default limits
func SplitIntoPostChunks(paragraph string) []string {
	return Default().SplitIntoPostChunks(paragraph)
}

// SplitOnWords packs words using the default grapheme budget
func SplitOnWords(text string) []string {
	return Default().SplitOnWords(text)
}

// GroupChunksIntoThreads groups chunks using the default thread length
func GroupChunksIntoThreads(chunks []string) [][]string {
	return Default().GroupChunksIntoThreads(chunks)
}

// ABOUTME: Episode represents one posting run's worth of paragraphs
// ABOUTME: Tracks which paragraph each chunk came from so progress can be resumed
package models

// Episode is a group of consecutive paragraphs posted in a single run,
// split into chunks and grouped into reply threads.
type Episode struct {
	// Start is the book index of the first paragraph
	Start      int      `json:"start"`
	Paragraphs []string `json:"paragraphs"`
	Chunks     []string `json:"chunks"`
	// ChunkParagraph maps chunk i to its paragraph offset within the episode
	ChunkParagraph []int      `json:"chunk_paragraph"`
	Threads        [][]string `json:"threads"`
}

// Next returns the book index just past the episode
func (e *Episode) Next() int {
	return e.Start + len(e.Paragraphs)
}

// CompletedParagraphs returns how many leading paragraphs are fully
// covered by the first postedChunks chunks.
func (e *Episode) CompletedParagraphs(postedChunks int) int {
	if postedChunks >= len(e.Chunks) {
		return len(e.Paragraphs)
	}
	if postedChunks <= 0 {
		return 0
	}
	// The paragraph of the next unposted chunk is the first incomplete one
	return e.ChunkParagraph[postedChunks]
}

// ThreadOffsets returns the chunk index at which each thread starts
func (e *Episode) ThreadOffsets() []int {
	offsets := make([]int, len(e.Threads))
	n := 0
	for i, thread := range e.Threads {
		offsets[i] = n
		n += len(thread)
	}
	return offsets
}

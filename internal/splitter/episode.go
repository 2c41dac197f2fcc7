// ABOUTME: Episode planning runs the whole pipeline over consecutive paragraphs
// ABOUTME: Chunks every paragraph, concatenates them, and groups the result into threads
package splitter

import "github.com/harper/bookthread/internal/models"

// PlanEpisode splits each paragraph into chunks, keeps them in order, and
// groups the combined sequence into threads. start is the book index of
// the first paragraph.
func (s *Splitter) PlanEpisode(start int, paragraphs []string) *models.Episode {
	ep := &models.Episode{
		Start:      start,
		Paragraphs: paragraphs,
	}

	for i, para := range paragraphs {
		for _, chunk := range s.SplitIntoPostChunks(para) {
			ep.Chunks = append(ep.Chunks, chunk)
			ep.ChunkParagraph = append(ep.ChunkParagraph, i)
		}
	}

	ep.Threads = s.GroupChunksIntoThreads(ep.Chunks)
	return ep
}

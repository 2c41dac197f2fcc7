// ABOUTME: Publisher drives one posting run from the saved cursor
// ABOUTME: Collects an episode, plans its threads, posts them in order, and persists progress
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harper/bookthread/internal/models"
	"github.com/harper/bookthread/internal/source"
	"github.com/harper/bookthread/internal/splitter"
	"github.com/harper/bookthread/internal/storage"
)

// ErrOutOfRange is returned when a paragraph index is outside the book
var ErrOutOfRange = errors.New("paragraph index out of range")

// BookSource provides the parsed book
type BookSource interface {
	Load(ctx context.Context) (*source.Book, error)
	URL() string
}

// ThreadPoster publishes a reply-chain and returns the refs it created,
// including those created before a failure
type ThreadPoster interface {
	PostThread(ctx context.Context, chunks []string) ([]models.PostRef, error)
}

// PostLog records every submitted chunk
type PostLog interface {
	RecordPost(ctx context.Context, rec *models.PostRecord) error
}

// RunOptions controls a single run
type RunOptions struct {
	DryRun bool
	// Paragraph overrides the saved cursor when set
	Paragraph *int
}

// RunResult describes what a run did (or would do, for a dry run)
type RunResult struct {
	RunID    string
	Finished bool
	DryRun   bool
	Episode  *models.Episode
	// Next is the cursor after the run
	Next          int
	ThreadsPosted int
	Posts         []models.PostRef
}

// Status is a snapshot of reading progress
type Status struct {
	State      *models.State
	BookLength int
}

// Publisher wires the pipeline to its collaborators. Poster and Log may be
// nil for read-only use (dry runs, status, seek).
type Publisher struct {
	Source   BookSource
	Splitter *splitter.Splitter
	Poster   ThreadPoster
	State    storage.StateStore
	Log      PostLog
	Logger   *slog.Logger
	Now      func() time.Time
}

func (p *Publisher) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

func (p *Publisher) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Publisher) splitter() *splitter.Splitter {
	if p.Splitter == nil {
		return splitter.Default()
	}
	return p.Splitter
}

// Run posts the next episode
func (p *Publisher) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	log := p.logger()

	state, err := p.State.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	if state.Source != "" && state.Source != p.Source.URL() {
		log.Warn("saved cursor refers to a different source", "saved", state.Source, "current", p.Source.URL())
	}

	book, err := p.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	start := state.CurrentParagraph
	if opts.Paragraph != nil {
		start = *opts.Paragraph
		if start < 0 {
			return nil, fmt.Errorf("%w: %d", ErrOutOfRange, start)
		}
	}

	result := &RunResult{
		RunID:  uuid.New().String(),
		DryRun: opts.DryRun,
		Next:   start,
	}

	if start >= book.Len() {
		log.Info("reached end of book", "paragraph", start, "length", book.Len())
		result.Finished = true
		return result, nil
	}

	ep := p.splitter().PlanEpisode(start, book.CollectEpisode(start))
	result.Episode = ep
	log.Info("planned episode",
		"run", result.RunID,
		"start", start,
		"paragraphs", len(ep.Paragraphs),
		"chunks", len(ep.Chunks),
		"threads", len(ep.Threads))

	if opts.DryRun {
		result.Next = ep.Next()
		return result, nil
	}
	if p.Poster == nil {
		return nil, errors.New("no poster configured")
	}

	offsets := ep.ThreadOffsets()
	posted := 0
	for i, thread := range ep.Threads {
		refs, postErr := p.Poster.PostThread(ctx, thread)
		p.record(ctx, result.RunID, ep, i, offsets[i], thread, refs)
		result.Posts = append(result.Posts, refs...)
		posted += len(refs)

		if postErr == nil {
			result.ThreadsPosted++
			log.Info("posted thread", "run", result.RunID, "thread", i+1, "of", len(ep.Threads), "posts", len(refs))
		}

		if len(refs) > 0 {
			next := start + ep.CompletedParagraphs(posted)
			state.Advance(next, refs[len(refs)-1].URI, p.now())
			state.Source = p.Source.URL()
			if err := p.State.Save(ctx, state); err != nil {
				return result, fmt.Errorf("failed to save state after thread %d: %w", i+1, err)
			}
			result.Next = next
		}

		if postErr != nil {
			return result, fmt.Errorf("failed to post thread %d of %d: %w", i+1, len(ep.Threads), postErr)
		}
	}

	log.Info("episode complete", "run", result.RunID, "next", result.Next)
	return result, nil
}

func (p *Publisher) record(ctx context.Context, runID string, ep *models.Episode, threadIndex, offset int, thread []string, refs []models.PostRef) {
	if p.Log == nil || len(refs) == 0 {
		return
	}
	for j, ref := range refs {
		chunk := offset + j
		rec := &models.PostRecord{
			RunID:          runID,
			ParagraphIndex: ep.Start + ep.ChunkParagraph[chunk],
			ThreadIndex:    threadIndex,
			ChunkIndex:     chunk,
			URI:            ref.URI,
			CID:            ref.CID,
			RootURI:        refs[0].URI,
			Text:           thread[j],
			CreatedAt:      p.now(),
		}
		if err := p.Log.RecordPost(ctx, rec); err != nil {
			p.logger().Warn("failed to record post", "uri", ref.URI, "error", err)
		}
	}
}

// Status reports the saved cursor and the book length
func (p *Publisher) Status(ctx context.Context) (*Status, error) {
	state, err := p.State.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	book, err := p.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	return &Status{State: state, BookLength: book.Len()}, nil
}

// Seek moves the cursor to paragraph. Seeking to the book length marks
// the book as finished.
func (p *Publisher) Seek(ctx context.Context, paragraph int) (*models.State, error) {
	book, err := p.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if paragraph < 0 || paragraph > book.Len() {
		return nil, fmt.Errorf("%w: %d (book has %d paragraphs)", ErrOutOfRange, paragraph, book.Len())
	}

	state, err := p.State.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	state.CurrentParagraph = paragraph
	state.Source = p.Source.URL()
	if err := p.State.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}
	p.logger().Info("moved cursor", "paragraph", paragraph)
	return state, nil
}

// ABOUTME: Tests for the thread grouper
// ABOUTME: Covers nominal breaks, quote deferral, and the hard ceiling
package splitter

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
)

func threadSizes(threads [][]string) []int {
	sizes := make([]int, len(threads))
	for i, th := range threads {
		sizes[i] = len(th)
	}
	return sizes
}

func numbered(n int) []string {
	chunks := make([]string, n)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
	}
	return chunks
}

func TestGroupChunksIntoThreads_Sizes(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []int
	}{
		{"empty", nil, []int{}},
		{"one", numbered(1), []int{1}},
		{"exactly max", numbered(3), []int{3}},
		{"four", numbered(4), []int{3, 1}},
		{"six", numbered(6), []int{3, 3}},
		{"seven", numbered(7), []int{3, 3, 1}},
		{
			name:   "quote deferred until it closes",
			chunks: []string{"a", `"b`, "c", `d"`, "e", "f", "g", "h"},
			want:   []int{4, 3, 1},
		},
		{
			name:   "unclosed quote hits ceiling",
			chunks: []string{"a", `"b`, "c", "d", "e", "f", "g", "h"},
			want:   []int{5, 3},
		},
		{
			name:   "open quote at last chunk still commits",
			chunks: []string{"a", `"b`, "c", "d"},
			want:   []int{4},
		},
		{
			name:   "apostrophes do not defer",
			chunks: []string{"don't", "Johnson's", "can't", "won't"},
			want:   []int{3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := threadSizes(GroupChunksIntoThreads(tt.chunks))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("thread sizes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupChunksIntoThreads_CustomLength(t *testing.T) {
	s := New(MaxGraphemes, 2)
	if s.ThreadCeiling() != 4 {
		t.Fatalf("ThreadCeiling() = %d, want 4", s.ThreadCeiling())
	}

	got := threadSizes(s.GroupChunksIntoThreads(numbered(5)))
	if !reflect.DeepEqual(got, []int{2, 2, 1}) {
		t.Errorf("thread sizes = %v, want [2 2 1]", got)
	}
}

func TestGroupChunksIntoThreads_DoesNotAliasInput(t *testing.T) {
	chunks := numbered(2)
	threads := GroupChunksIntoThreads(chunks)
	threads[0][0] = "changed"
	if chunks[0] != "chunk 0" {
		t.Error("grouping should not share the caller's backing array")
	}
}

func TestGroupChunksIntoThreads_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pieces := []string{"plain", `"open`, `close"`, "don't", "'tis", "it's", "word"}

	for n := 0; n < 300; n++ {
		chunks := make([]string, rng.IntN(20))
		for i := range chunks {
			chunks[i] = pieces[rng.IntN(len(pieces))]
		}

		threads := GroupChunksIntoThreads(chunks)

		var flat []string
		for _, th := range threads {
			flat = append(flat, th...)
		}
		if len(chunks) == 0 {
			if len(threads) != 0 {
				t.Fatalf("empty input produced %d threads", len(threads))
			}
			continue
		}
		if !reflect.DeepEqual(flat, chunks) {
			t.Fatalf("flattened threads %q != chunks %q", flat, chunks)
		}

		for i, th := range threads {
			if len(th) == 0 {
				t.Fatalf("thread %d is empty", i)
			}
			if len(th) > MaxThreadLength+ThreadOverflow {
				t.Fatalf("thread %d has %d chunks, ceiling is %d", i, len(th), MaxThreadLength+ThreadOverflow)
			}
			if i < len(threads)-1 && len(th) < MaxThreadLength {
				t.Fatalf("non-final thread %d has only %d chunks", i, len(th))
			}
		}
	}
}

func TestPipeline_QuotedDialogueStaysInOneThread(t *testing.T) {
	s := New(25, 2)
	para := `Dr. Smith arrived. He said: "Hello there. Welcome." Then he left.`

	chunks := s.SplitIntoPostChunks(para)
	wantChunks := []string{
		"Dr. Smith arrived.",
		`He said: "Hello there.`,
		`Welcome." Then he left.`,
	}
	if !reflect.DeepEqual(chunks, wantChunks) {
		t.Fatalf("chunks = %q, want %q", chunks, wantChunks)
	}

	// The nominal break after two chunks falls inside the quote
	threads := s.GroupChunksIntoThreads(chunks)
	if len(threads) != 1 {
		t.Errorf("got %d threads, want 1: %q", len(threads), threads)
	}
}

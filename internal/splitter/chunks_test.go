// ABOUTME: Tests for the chunk assembler
// ABOUTME: Covers the fast path, sentence packing, and word fallback invariants
package splitter

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

func TestSplitIntoPostChunks_FastPath(t *testing.T) {
	paragraphs := []string{
		"A short paragraph.",
		"Spacing  is   kept when it fits.",
		strings.Repeat("a", MaxGraphemes),
	}

	for _, p := range paragraphs {
		got := SplitIntoPostChunks(p)
		if !reflect.DeepEqual(got, []string{p}) {
			t.Errorf("SplitIntoPostChunks(%q) = %q, want the paragraph unchanged", p, got)
		}
	}
}

func TestSplitIntoPostChunks_PacksSentences(t *testing.T) {
	s := New(20, MaxThreadLength)

	got := s.SplitIntoPostChunks("Aa bb. Cc dd. Ee ff. Gg hh.")
	want := []string{"Aa bb. Cc dd. Ee ff.", "Gg hh."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitIntoPostChunks() = %q, want %q", got, want)
	}
}

func TestSplitIntoPostChunks_OversizeSentence(t *testing.T) {
	s := New(20, MaxThreadLength)

	para := "Hi there. One two three four five six seven eight nine ten. Bye now."
	got := s.SplitIntoPostChunks(para)
	want := []string{
		"Hi there.",
		"One two three four",
		"five six seven eight",
		"nine ten.",
		"Bye now.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitIntoPostChunks() = %q, want %q", got, want)
	}
}

func TestSplitIntoPostChunks_LowercaseContinuationJoinsSentences(t *testing.T) {
	s := New(20, MaxThreadLength)

	// "there. one" reads as a continuation, so the first sentence is word-packed
	got := s.SplitIntoPostChunks("Hi there. one two three four five. Bye now.")
	want := []string{"Hi there. one two", "three four five.", "Bye now."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitIntoPostChunks() = %q, want %q", got, want)
	}
}

func TestSplitIntoPostChunks_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for n := 0; n < 200; n++ {
		para := randomParagraph(rng)
		chunks := SplitIntoPostChunks(para)

		if len(chunks) == 0 {
			t.Fatalf("no chunks for non-empty paragraph %q", para)
		}

		joined := strings.Fields(strings.Join(chunks, " "))
		if !reflect.DeepEqual(joined, strings.Fields(para)) {
			t.Fatalf("words not preserved for %q:\n got %q", para, chunks)
		}

		for _, c := range chunks {
			if CountGraphemes(c) > MaxGraphemes && len(strings.Fields(c)) != 1 {
				t.Fatalf("chunk of %d graphemes has several words: %q", CountGraphemes(c), c)
			}
			if strings.TrimSpace(c) != c || c == "" {
				t.Fatalf("chunk has untrimmed or empty text: %q", c)
			}
		}
	}
}

var sampleWords = []string{
	"the", "sea", "was", "calm", "Captain", "Nemo", "Dr.", "Mr.", "said", "\"Come",
	"here,\"", "don't", "sailor's", "Nautilus", "ocean", "déjà", "vu", "👍🏽", "beneath", "waves",
}

func randomParagraph(rng *rand.Rand) string {
	var b strings.Builder
	sentences := 1 + rng.IntN(25)
	for i := 0; i < sentences; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		words := 1 + rng.IntN(30)
		for w := 0; w < words; w++ {
			if w > 0 {
				b.WriteByte(' ')
			}
			if rng.IntN(150) == 0 {
				b.WriteString(strings.Repeat("z", 280+rng.IntN(60)))
				continue
			}
			b.WriteString(sampleWords[rng.IntN(len(sampleWords))])
		}
		b.WriteString([]string{".", "!", "?"}[rng.IntN(3)])
	}
	return b.String()
}

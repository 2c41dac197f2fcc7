// ABOUTME: Tests for Gutenberg wrapper stripping and paragraph extraction
// ABOUTME: Verifies marker handling and whitespace normalization
package source

import (
	"errors"
	"reflect"
	"testing"
)

const sampleBook = `The Project Gutenberg eBook of Sample
License text here.

*** START OF THE PROJECT GUTENBERG EBOOK SAMPLE ***

CHAPTER I.

It was a dark
and stormy night.

He said:

   "Come in."


*** END OF THE PROJECT GUTENBERG EBOOK SAMPLE ***
More license.
`

func TestStripGutenbergWrapper(t *testing.T) {
	body, err := StripGutenbergWrapper(sampleBook)
	if err != nil {
		t.Fatalf("StripGutenbergWrapper() error = %v", err)
	}

	want := "\nCHAPTER I.\n\nIt was a dark\nand stormy night.\n\nHe said:\n\n   \"Come in.\"\n\n\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestStripGutenbergWrapper_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"no start", "just text\n*** END OF THE PROJECT GUTENBERG EBOOK X ***", ErrMissingStartMarker},
		{"no newline after start", "*** START OF THE PROJECT GUTENBERG EBOOK X ***", ErrMalformed},
		{"no end", "*** START OF THE PROJECT GUTENBERG EBOOK X ***\nbody", ErrMissingEndMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StripGutenbergWrapper(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractParagraphs(t *testing.T) {
	body, err := StripGutenbergWrapper(sampleBook)
	if err != nil {
		t.Fatal(err)
	}

	got := ExtractParagraphs(body)
	want := []string{
		"CHAPTER I.",
		"It was a dark and stormy night.",
		"He said:",
		`"Come in."`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractParagraphs() = %q, want %q", got, want)
	}
}

func TestExtractParagraphs_WindowsLineEndings(t *testing.T) {
	got := ExtractParagraphs("one\r\ntwo\r\n\r\nthree")
	want := []string{"one two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractParagraphs() = %q, want %q", got, want)
	}
}

func TestExtractParagraphs_Empty(t *testing.T) {
	if got := ExtractParagraphs(" \n\n \n"); len(got) != 0 {
		t.Errorf("ExtractParagraphs() = %q, want none", got)
	}
}

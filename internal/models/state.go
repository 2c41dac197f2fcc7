// ABOUTME: State is the reading progress persisted between runs
// ABOUTME: JSON field names match the state.json layout used by earlier versions
package models

import "time"

// State records where the next run should resume
type State struct {
	CurrentParagraph int        `json:"currentParagraph"`
	LastPostURI      string     `json:"lastPostUri,omitempty"`
	LastPostAt       *time.Time `json:"lastPostAt,omitempty"`
	Source           string     `json:"source,omitempty"`
}

// NewState returns the state of a book that has not been started
func NewState() *State {
	return &State{}
}

// Advance moves the cursor and records the most recent post
func (s *State) Advance(paragraph int, uri string, at time.Time) {
	s.CurrentParagraph = paragraph
	if uri != "" {
		s.LastPostURI = uri
	}
	s.LastPostAt = &at
}

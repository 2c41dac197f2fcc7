// ABOUTME: Post types shared by the posting client and the post log
// ABOUTME: PostRef is a strong reference; PostRecord is one logged submission
package models

import "time"

// PostRef identifies a created post by its AT URI and content hash
type PostRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// PostRecord is a single submitted chunk as stored in the post log
type PostRecord struct {
	ID             string    `json:"id"`
	RunID          string    `json:"run_id"`
	ParagraphIndex int       `json:"paragraph_index"`
	ThreadIndex    int       `json:"thread_index"`
	ChunkIndex     int       `json:"chunk_index"`
	URI            string    `json:"uri"`
	CID            string    `json:"cid"`
	RootURI        string    `json:"root_uri"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

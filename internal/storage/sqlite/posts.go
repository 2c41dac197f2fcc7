// ABOUTME: Post log operations: record submitted posts and list recent ones
// ABOUTME: Lets a reader audit what each run published
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/bookthread/internal/models"
)

// RecordPost inserts one submitted post. An empty ID is generated.
func (db *DB) RecordPost(ctx context.Context, rec *models.PostRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO posts (id, run_id, paragraph_index, thread_index, chunk_index, uri, cid, root_uri, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.ParagraphIndex, rec.ThreadIndex, rec.ChunkIndex,
		rec.URI, rec.CID, rec.RootURI, rec.Text, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record post: %w", err)
	}
	return nil
}

// RecentPosts returns up to limit posts, newest first
func (db *DB) RecentPosts(ctx context.Context, limit int) ([]models.PostRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, run_id, paragraph_index, thread_index, chunk_index, uri, cid, root_uri, text, created_at
		FROM posts
		ORDER BY created_at DESC, paragraph_index DESC, chunk_index DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PostRecord
	for rows.Next() {
		var p models.PostRecord
		if err := rows.Scan(&p.ID, &p.RunID, &p.ParagraphIndex, &p.ThreadIndex, &p.ChunkIndex,
			&p.URI, &p.CID, &p.RootURI, &p.Text, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts returns the number of logged posts
func (db *DB) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

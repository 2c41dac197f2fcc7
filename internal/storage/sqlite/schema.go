// ABOUTME: SQLite schema for the post log
// ABOUTME: One row per submitted chunk, keyed by a generated ID
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    paragraph_index INTEGER NOT NULL,
    thread_index INTEGER NOT NULL,
    chunk_index INTEGER NOT NULL,
    uri TEXT NOT NULL,
    cid TEXT NOT NULL,
    root_uri TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_run ON posts(run_id);
CREATE INDEX IF NOT EXISTS idx_posts_paragraph ON posts(paragraph_index);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1

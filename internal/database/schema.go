// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the catalogue tables, the FTS5 index, and the
// triggers keeping the index in sync with the content table.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS content (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL CHECK (format IN ('book', 'video')),
		minimum_age INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		cover_image TEXT NOT NULL DEFAULT '',
		content_url TEXT NOT NULL DEFAULT '',
		view_count INTEGER NOT NULL DEFAULT 0,
		decision_date TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS content_genres (
		content_id INTEGER NOT NULL REFERENCES content(id) ON DELETE CASCADE,
		genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (content_id, genre_id)
	)`,

	`CREATE TABLE IF NOT EXISTS children (
		id TEXT PRIMARY KEY,
		age INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS blocked_genres (
		child_id TEXT NOT NULL,
		genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (child_id, genre_id)
	)`,

	`CREATE TABLE IF NOT EXISTS interactions (
		child_id TEXT NOT NULL,
		genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		score REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (child_id, genre_id)
	)`,

	`CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		child_id TEXT NOT NULL,
		message TEXT NOT NULL,
		is_bot INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_content_status_format
		ON content(status, format)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_history_child
		ON chat_history(child_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_child
		ON interactions(child_id, score DESC)`,

	// Contentless-delete is avoided: external content keeps the index
	// small and lets bm25 ranking work against the live rows.
	`CREATE VIRTUAL TABLE IF NOT EXISTS content_fts USING fts5(
		title, description,
		content='content', content_rowid='id',
		tokenize='porter unicode61'
	)`,

	`CREATE TRIGGER IF NOT EXISTS content_fts_insert AFTER INSERT ON content BEGIN
		INSERT INTO content_fts(rowid, title, description)
		VALUES (new.id, new.title, new.description);
	END`,
	`CREATE TRIGGER IF NOT EXISTS content_fts_delete AFTER DELETE ON content BEGIN
		INSERT INTO content_fts(content_fts, rowid, title, description)
		VALUES ('delete', old.id, old.title, old.description);
	END`,
	`CREATE TRIGGER IF NOT EXISTS content_fts_update AFTER UPDATE ON content BEGIN
		INSERT INTO content_fts(content_fts, rowid, title, description)
		VALUES ('delete', old.id, old.title, old.description);
		INSERT INTO content_fts(rowid, title, description)
		VALUES (new.id, new.title, new.description);
	END`,
}

// initSchema applies all schema statements. Statements are idempotent so
// startup against an existing database is a no-op.
func (db *DB) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// OptimizeSearchIndex merges the FTS index's b-trees. Run periodically by
// the index maintenance service; safe to call at any time.
func (db *DB) OptimizeSearchIndex(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO content_fts(content_fts) VALUES ('optimize')`)
	if err != nil {
		return fmt.Errorf("failed to optimize search index: %w", err)
	}
	return nil
}

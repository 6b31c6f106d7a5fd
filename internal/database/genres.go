// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"fmt"

	"github.com/fablehouse/fablehouse/internal/models"
)

// ListGenres returns every genre name in the catalogue, lowercased as
// stored, ordered alphabetically.
func (db *DB) ListGenres(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("genre list failed: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("genre scan failed: %w", err)
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

// FindByGenre returns approved content tagged with the named genre.
// format narrows to one content type when non-empty.
func (db *DB) FindByGenre(ctx context.Context, genre string, format models.Format) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content c
		JOIN content_genres cg ON cg.content_id = c.id
		JOIN genres g ON g.id = cg.genre_id
		WHERE g.name = ? COLLATE NOCASE AND c.status = ?`, contentColumns)
	args := []interface{}{genre, models.StatusApproved}
	if format != "" {
		query += " AND c.format = ?"
		args = append(args, string(format))
	}
	query += " ORDER BY c.view_count DESC"

	items, err := db.queryContent(ctx, "find_by_genre", query, args...)
	if err != nil {
		return nil, fmt.Errorf("genre search failed: %w", err)
	}
	return items, nil
}

// BlockedGenres returns the genre names a child's guardian has blocked.
func (db *DB) BlockedGenres(ctx context.Context, childID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT g.name FROM blocked_genres b
		JOIN genres g ON g.id = b.genre_id
		WHERE b.child_id = ?`, childID)
	if err != nil {
		return nil, fmt.Errorf("blocked genre lookup failed: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("blocked genre scan failed: %w", err)
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

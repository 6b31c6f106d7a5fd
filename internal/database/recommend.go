// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fablehouse/fablehouse/internal/models"
)

const (
	recommendLimit = 20

	// minPopularResults gates the popular list: fewer than five viewed
	// items is not a meaningful popularity signal yet.
	minPopularResults = 5

	// trendingWindow is how far back a catalogue decision counts as
	// recent.
	trendingWindow = 7 * 24 * time.Hour

	// topInteractionGenres is how many of a child's highest-scoring
	// genres feed personalized picks.
	topInteractionGenres = 5
)

// Popular returns the most viewed age-appropriate content. An empty
// slice is returned when too few items have view counts to rank.
func (db *DB) Popular(ctx context.Context, childAge int, format models.Format) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.status = ? AND c.minimum_age <= ?`, contentColumns)
	args := []interface{}{models.StatusApproved, childAge}
	if format != "" {
		query += " AND c.format = ?"
		args = append(args, string(format))
	}
	query += fmt.Sprintf(" ORDER BY c.view_count DESC LIMIT %d", recommendLimit)

	items, err := db.queryContent(ctx, "popular", query, args...)
	if err != nil {
		return nil, fmt.Errorf("popular query failed: %w", err)
	}
	if len(items) < minPopularResults {
		return nil, nil
	}
	return items, nil
}

// Trending returns age-appropriate content approved within the last
// week, most viewed first. When nothing is that recent it falls back to
// the most recently approved items.
func (db *DB) Trending(ctx context.Context, childAge int, format models.Format) ([]models.ContentItem, error) {
	cutoff := time.Now().Add(-trendingWindow).UTC().Format(time.RFC3339)

	formatCond := ""
	args := []interface{}{models.StatusApproved, childAge}
	if format != "" {
		formatCond = " AND c.format = ?"
		args = append(args, string(format))
	}

	items, err := db.queryContent(ctx, "trending", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.status = ? AND c.minimum_age <= ?%s AND c.decision_date >= ?
		ORDER BY c.view_count DESC LIMIT %d`, contentColumns, formatCond, recommendLimit),
		append(append([]interface{}{}, args...), cutoff)...)
	if err != nil {
		return nil, fmt.Errorf("trending query failed: %w", err)
	}
	if len(items) > 0 {
		return items, nil
	}

	items, err = db.queryContent(ctx, "trending", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.status = ? AND c.minimum_age <= ?%s
		ORDER BY c.decision_date DESC LIMIT %d`, contentColumns, formatCond, recommendLimit),
		args...)
	if err != nil {
		return nil, fmt.Errorf("recent fallback query failed: %w", err)
	}
	return items, nil
}

// Personalized returns age-appropriate content in the genres the child
// interacts with most. Children with no interaction history get the
// popular list instead.
func (db *DB) Personalized(ctx context.Context, childID string, childAge int, format models.Format) ([]models.ContentItem, error) {
	genreIDs, err := db.topGenres(ctx, childID)
	if err != nil {
		return nil, err
	}
	if len(genreIDs) == 0 {
		return db.Popular(ctx, childAge, format)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(genreIDs)), ",")
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM content c
		JOIN content_genres cg ON cg.content_id = c.id
		WHERE cg.genre_id IN (%s) AND c.status = ? AND c.minimum_age <= ?`,
		contentColumns, placeholders)
	args := make([]interface{}, 0, len(genreIDs)+3)
	for _, id := range genreIDs {
		args = append(args, id)
	}
	args = append(args, models.StatusApproved, childAge)
	if format != "" {
		query += " AND c.format = ?"
		args = append(args, string(format))
	}
	query += fmt.Sprintf(" ORDER BY c.view_count DESC LIMIT %d", recommendLimit)

	items, err := db.queryContent(ctx, "personalized", query, args...)
	if err != nil {
		return nil, fmt.Errorf("personalized query failed: %w", err)
	}
	if len(items) == 0 {
		return db.Popular(ctx, childAge, format)
	}
	return items, nil
}

// topGenres returns the child's highest-scoring interaction genres.
func (db *DB) topGenres(ctx context.Context, childID string) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT genre_id FROM interactions
		WHERE child_id = ?
		ORDER BY score DESC LIMIT %d`, topInteractionGenres), childID)
	if err != nil {
		return nil, fmt.Errorf("interaction lookup failed: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("interaction scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

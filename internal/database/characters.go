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

// minTitleHits is the threshold below which a character search widens to
// descriptions.
const minTitleHits = 3

// SearchCharacter finds approved content featuring a character. Titles
// are searched first; when fewer than three titles match, descriptions
// are searched too and the results merged without duplicates.
func (db *DB) SearchCharacter(ctx context.Context, character string) ([]models.ContentItem, error) {
	pattern := "%" + character + "%"

	titleHits, err := db.queryContent(ctx, "search_character", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.title LIKE ? COLLATE NOCASE AND c.status = ?`, contentColumns),
		pattern, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("character title search failed: %w", err)
	}
	if len(titleHits) >= minTitleHits {
		return titleHits, nil
	}

	descHits, err := db.queryContent(ctx, "search_character", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.description LIKE ? COLLATE NOCASE AND c.status = ?`, contentColumns),
		pattern, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("character description search failed: %w", err)
	}

	seen := make(map[int64]struct{}, len(titleHits))
	merged := titleHits
	for _, item := range titleHits {
		seen[item.ID] = struct{}{}
	}
	for _, item := range descHits {
		if _, dup := seen[item.ID]; !dup {
			merged = append(merged, item)
			seen[item.ID] = struct{}{}
		}
	}
	return merged, nil
}

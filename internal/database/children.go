// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fablehouse/fablehouse/internal/models"
)

// ChildAge looks up a registered child's age. found is false for
// unregistered children; callers apply their own default age.
func (db *DB) ChildAge(ctx context.Context, childID string) (age int, found bool, err error) {
	err = db.conn.QueryRowContext(ctx,
		`SELECT age FROM children WHERE id = ?`, childID).Scan(&age)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("child age lookup failed: %w", err)
	}
	return age, true, nil
}

// AppendChatTurn records one message in a child's chat history.
func (db *DB) AppendChatTurn(ctx context.Context, turn models.ChatTurn) error {
	created := turn.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO chat_history (child_id, message, is_bot, created_at)
		VALUES (?, ?, ?, ?)`,
		turn.ChildID, turn.Message, turn.IsBot, created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("chat history insert failed: %w", err)
	}
	return nil
}

// RecentChatTurns returns a child's last limit messages in
// chronological order.
func (db *DB) RecentChatTurns(ctx context.Context, childID string, limit int) ([]models.ChatTurn, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT child_id, message, is_bot, created_at FROM (
			SELECT id, child_id, message, is_bot, created_at FROM chat_history
			WHERE child_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history query failed: %w", err)
	}
	defer rows.Close()

	var turns []models.ChatTurn
	for rows.Next() {
		var t models.ChatTurn
		var created string
		if err := rows.Scan(&t.ChildID, &t.Message, &t.IsBot, &created); err != nil {
			return nil, fmt.Errorf("chat history scan failed: %w", err)
		}
		if ts, perr := time.Parse(time.RFC3339, created); perr == nil {
			t.CreatedAt = ts
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package generator

import (
	"fmt"
	"strings"

	"github.com/fablehouse/fablehouse/internal/models"
)

// botTurnLimit truncates long bot messages inside the history so the
// prompt stays small.
const botTurnLimit = 200

const systemPromptFormat = `You are a friendly helper for a children's library. ` +
	`You are talking with a child who is %d years old. ` +
	`Use short sentences and simple words a %d-year-old understands. ` +
	`Only talk about books, stories, videos and reading. ` +
	`Never discuss violence, romance, politics or anything scary. ` +
	`If you do not know the answer, suggest asking a grown-up or a librarian. ` +
	`Keep every answer under four sentences.`

// buildMessages assembles the system prompt, the recent conversation
// history and the current question.
func (c *Client) buildMessages(question string, childAge int, history []models.ChatTurn) []chatMessage {
	messages := []chatMessage{{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptFormat, childAge, childAge),
	}}

	turns := history
	if limit := c.cfg.HistoryLimit; limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	for _, turn := range turns {
		role := "user"
		content := turn.Message
		if turn.IsBot {
			role = "assistant"
			content = truncate(content, botTurnLimit)
		}
		messages = append(messages, chatMessage{Role: role, Content: content})
	}

	return append(messages, chatMessage{Role: "user", Content: question})
}

func simplifyPrompt(childAge int) string {
	return fmt.Sprintf(
		"That was a bit hard to read. Please say it again in simpler words for a %d-year-old.",
		childAge)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package models defines the shared domain types exchanged between the
// catalogue, the chat pipeline, and the HTTP API.
package models

import "time"

// Format identifies the kind of content item.
type Format string

const (
	// FormatBook is reading content.
	FormatBook Format = "book"
	// FormatVideo is watchable content.
	FormatVideo Format = "video"
)

// StatusApproved marks catalogue items cleared for children. Only approved
// items are ever returned to a chat answer.
const StatusApproved = "approved"

// ContentItem is a single catalogue entry (a book or a video).
type ContentItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Format      Format   `json:"format"`
	MinimumAge  int      `json:"minimum_age"`
	Status      string   `json:"status,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	CoverImage  string   `json:"cover_image,omitempty"`
	ContentURL  string   `json:"content_url,omitempty"`
	ViewCount   int64    `json:"view_count,omitempty"`
}

// ChildProfile holds the safety-relevant attributes of a child account.
type ChildProfile struct {
	ID            string   `json:"id"`
	Age           int      `json:"age"`
	BlockedGenres []string `json:"blocked_genres,omitempty"`
}

// ChatTurn is one persisted message in a child's chat history.
type ChatTurn struct {
	ChildID   string    `json:"child_id"`
	Message   string    `json:"message"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

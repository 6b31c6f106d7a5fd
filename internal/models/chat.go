// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package models

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
	ChildID  string `json:"child_id" validate:"required,max=128"`
}

// ChatAnswer is the payload of a successful chat response.
//
// Retrieval answers carry Books and/or Videos alongside Message; pure
// conversational answers carry only Message.
type ChatAnswer struct {
	Message string        `json:"message"`
	Books   []ContentItem `json:"books,omitempty"`
	Videos  []ContentItem `json:"videos,omitempty"`

	// Resolution details, useful for clients that render chips or debug
	// views.
	Character          string `json:"character,omitempty"`
	Genre              string `json:"genre,omitempty"`
	Title              string `json:"title,omitempty"`
	RecommendationType string `json:"recommendation_type,omitempty"`
	Source             string `json:"source"`
}

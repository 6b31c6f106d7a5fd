// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package models

import "time"

// APIResponse is the standardized wrapper used by all HTTP endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error carries details when Status is "error".
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": {"message": "Here are some books you might like!", ...},
//	  "metadata": {"timestamp": "2026-02-14T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError carries structured error details.
//
// Code is machine-readable (VALIDATION_FAILED, GENERATOR_ERROR, ...);
// Message is for humans; Details adds optional context such as the
// offending field.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty request IDs")
	}
	if a == b {
		t.Error("expected unique request IDs")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")

	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected 'req-123', got '%s'", got)
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got '%s'", got)
	}
}

func TestCtxIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	SetLogger(NewTestLogger(&buf))

	ctx := ContextWithRequestID(context.Background(), "abc-xyz")
	Ctx(ctx).Info().Msg("handled")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"abc-xyz"`) {
		t.Errorf("expected request_id field, got: %s", out)
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	// No logger stored: must fall back to the global logger without panicking.
	logger := LoggerFromContext(context.Background())
	logger.Debug().Msg("fallback")
}

func TestContextWithLogger(t *testing.T) {
	var buf bytes.Buffer
	stored := NewTestLogger(&buf)

	ctx := ContextWithLogger(context.Background(), stored)
	Ctx(ctx).Info().Msg("from stored logger")

	if !strings.Contains(buf.String(), "from stored logger") {
		t.Errorf("expected stored logger to receive output, got: %s", buf.String())
	}
}

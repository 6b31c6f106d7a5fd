// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandlerHandle(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler)

	logger.Info("service started", "component", "sweeper", "interval", int64(60))

	out := buf.String()
	if !strings.Contains(out, "service started") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"component":"sweeper"`) {
		t.Errorf("expected string attr in output, got: %s", out)
	}
	if !strings.Contains(out, `"interval":60`) {
		t.Errorf("expected int attr in output, got: %s", out)
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	tests := []struct {
		name  string
		logFn func(*slog.Logger)
		want  string
	}{
		{"debug", func(l *slog.Logger) { l.Debug("m") }, `"level":"debug"`},
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

			tt.logFn(logger)

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s in output, got: %s", tt.want, buf.String())
			}
		})
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))

	child := handler.WithAttrs([]slog.Attr{slog.String("service", "api")})
	slog.New(child).Info("bound attrs")

	if !strings.Contains(buf.String(), `"service":"api"`) {
		t.Errorf("expected bound attr in output, got: %s", buf.String())
	}
}

func TestSlogHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))

	grouped := handler.WithGroup("http")
	slog.New(grouped).Info("grouped", "status", int64(200))

	if !strings.Contains(buf.String(), `"http.status":200`) {
		t.Errorf("expected group-prefixed key, got: %s", buf.String())
	}
}

func TestSlogHandlerWithEmptyGroup(t *testing.T) {
	handler := NewSlogHandler()
	if handler.WithGroup("") != handler {
		t.Error("expected empty group name to return the same handler")
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf).Level(zerolog.WarnLevel)
	handler := NewSlogHandlerWithLogger(logger)

	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package generator produces conversational answers through an
// OpenAI-compatible chat completions API. It is the fallback path when
// no catalogue lookup serves a question, and the source of the friendly
// wrapper text around catalogue results.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/models"
)

// Generator answers free-form questions for a child of a given age.
type Generator interface {
	Generate(ctx context.Context, question string, childAge int, history []models.ChatTurn) (string, error)
}

// thinkTagRe strips chain-of-thought blocks some models emit before the
// answer.
var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to one OpenAI-compatible endpoint.
type Client struct {
	cfg        *config.GeneratorConfig
	httpClient *http.Client
}

// NewClient builds a Client from configuration. The HTTP client carries
// the configured request timeout.
func NewClient(cfg *config.GeneratorConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate produces an answer for a child's question. Chat history and
// the child's age shape the prompt; when readability checking is on and
// the first answer reads too hard for the age band, one simplification
// retry is made.
func (c *Client) Generate(ctx context.Context, question string, childAge int, history []models.ChatTurn) (string, error) {
	messages := c.buildMessages(question, childAge, history)

	answer, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if c.cfg.Readability && !readableForAge(answer, childAge) {
		logging.Ctx(ctx).Debug().
			Int("child_age", childAge).
			Float64("score", fleschReadingEase(answer)).
			Msg("answer too hard for age band, retrying simpler")
		messages = append(messages,
			chatMessage{Role: "assistant", Content: answer},
			chatMessage{Role: "user", Content: simplifyPrompt(childAge)},
		)
		simpler, retryErr := c.complete(ctx, messages)
		if retryErr != nil {
			// The first answer still stands when the retry fails.
			logging.Ctx(ctx).Warn().Err(retryErr).Msg("simplification retry failed")
			return answer, nil
		}
		return simpler, nil
	}
	return answer, nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	answer := CleanResponse(parsed.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("chat completion returned an empty answer")
	}
	return answer, nil
}

// CleanResponse removes reasoning tags and surrounding whitespace from a
// model answer.
func CleanResponse(answer string) string {
	return strings.TrimSpace(thinkTagRe.ReplaceAllString(answer, ""))
}

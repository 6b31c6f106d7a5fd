// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package intent

import (
	"strings"

	"github.com/fablehouse/fablehouse/internal/models"
)

// DetectCharacter returns the first known character mentioned in the
// question, or "" when none is found. Matching is plain substring search in
// list order; there is no ranking.
func DetectCharacter(question string, vocab Vocabulary) string {
	lower := strings.ToLower(question)
	for _, character := range vocab.Characters {
		if strings.Contains(lower, character) {
			return character
		}
	}
	return ""
}

// DetectContentType reports whether the question names a content format.
// Video words win over book words, mirroring how children phrase mixed
// questions ("can I watch the book?" is a watch request).
func DetectContentType(question string, vocab Vocabulary) (models.Format, bool) {
	lower := strings.ToLower(question)
	for _, w := range vocab.VideoWords {
		if strings.Contains(lower, w) {
			return models.FormatVideo, true
		}
	}
	for _, w := range vocab.BookWords {
		if strings.Contains(lower, w) {
			return models.FormatBook, true
		}
	}
	return "", false
}

// DetectGenre returns the first genre from the caller-supplied vocabulary
// mentioned in the question, or "". The genre list is dynamic (it comes
// from the catalogue), so it is an argument rather than part of Vocabulary.
func DetectGenre(question string, genres []string) string {
	lower := strings.ToLower(question)
	for _, genre := range genres {
		g := strings.ToLower(genre)
		if g != "" && strings.Contains(lower, g) {
			return g
		}
	}
	return ""
}

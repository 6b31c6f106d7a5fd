// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package intent

import "strings"

// ShouldResetCharacter decides whether a stored character context is stale
// given the child's new question. It deliberately leans toward resetting:
// a wrongly-kept character taints every answer until it expires, while a
// wrongly-dropped one costs a single clarification.
//
// The stored character survives only short continuity replies ("yes",
// "show me more") that mention no other entity.
func ShouldResetCharacter(question, storedCharacter string, vocab Vocabulary) bool {
	if storedCharacter == "" {
		return false
	}

	q := strings.ToLower(question)
	mentioned := strings.Contains(q, storedCharacter)

	// The character was not named and the message is a full sentence with
	// no continuity phrase: topic change.
	if !mentioned && len(strings.Fields(q)) > 2 {
		hasContinuity := false
		for _, phrase := range vocab.ContinuityPhrases {
			if strings.Contains(q, phrase) {
				hasContinuity = true
				break
			}
		}
		if !hasContinuity {
			return true
		}
	}

	// Explicit topic-change wording without the character named.
	if !mentioned {
		for _, w := range vocab.TopicChangeWords {
			if strings.Contains(q, w) {
				return true
			}
		}
	}

	// A different known entity (character, genre, content-type word) was
	// brought up.
	for _, entity := range vocab.TopicEntities {
		if entity != storedCharacter && strings.Contains(q, entity) {
			return true
		}
	}

	// A fresh question opener without the character named.
	if !mentioned {
		for _, starter := range vocab.QuestionStarters {
			if strings.HasPrefix(q, starter) {
				return true
			}
		}
	}

	return false
}

// IsShortResponse reports whether the question is a short continuity reply
// such as "yes please" or "maybe".
func IsShortResponse(question string, vocab Vocabulary) bool {
	q := strings.ToLower(question)
	fields := strings.Fields(q)
	if len(fields) > 3 {
		return false
	}
	for _, w := range vocab.ShortReplyWords {
		if strings.Contains(w, " ") {
			// Multi-word entries ("not sure") match as phrases.
			if strings.Contains(q, w) {
				return true
			}
			continue
		}
		// Single words match whole tokens only, so "dinosaurs" does not
		// count as a "no".
		for _, f := range fields {
			if strings.Trim(f, ".,!?") == w {
				return true
			}
		}
	}
	return false
}

// HasLocationReference reports whether the question points at something
// already in view ("this one", "the first one"), which lets the resolver
// reuse the stored content type.
func HasLocationReference(question string, vocab Vocabulary) bool {
	q := strings.ToLower(question)
	fields := strings.Fields(q)
	for _, phrase := range vocab.LocationPhrases {
		if strings.Contains(phrase, " ") {
			if strings.Contains(q, phrase) {
				return true
			}
			continue
		}
		// Single words match whole tokens so "there" and "where" do not
		// count as a "here".
		for _, f := range fields {
			if strings.Trim(f, ".,!?") == phrase {
				return true
			}
		}
	}
	return false
}

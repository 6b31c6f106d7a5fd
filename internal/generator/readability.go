// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package generator

import (
	"strings"
	"unicode"
)

// minScoreForAge maps age bands to the minimum Flesch reading-ease score
// an answer must reach. Higher scores mean easier text.
func minScoreForAge(age int) float64 {
	switch {
	case age < 6:
		return 90
	case age < 9:
		return 80
	case age < 12:
		return 70
	default:
		return 60
	}
}

// readableForAge reports whether text is easy enough for the age band.
// Very short answers always pass; the formula is unreliable under a
// handful of words.
func readableForAge(text string, age int) bool {
	if countWords(text) < 5 {
		return true
	}
	return fleschReadingEase(text) >= minScoreForAge(age)
}

// fleschReadingEase computes the Flesch reading-ease score:
// 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
func fleschReadingEase(text string) float64 {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}
	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	return 206.835 - 1.015*(wordCount/float64(sentences)) - 84.6*(float64(syllables)/wordCount)
}

func countWords(text string) int {
	return len(splitWords(text))
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func countSentences(text string) int {
	n := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			n++
		}
	}
	return n
}

// countSyllables estimates syllables by counting vowel groups, with the
// usual silent-e adjustment. Good enough for band checks; exact counts
// are not needed.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package intent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// titlePattern pairs a phrase regex with the capture group holding the
// candidate title. Order matters: the first matching pattern wins.
type titlePattern struct {
	re    *regexp.Regexp
	group int
}

var titlePatterns = []titlePattern{
	{regexp.MustCompile(`(?i)where can i (find|get|read|watch) ["']?([A-Za-z0-9\s]+)["']?`), 2},
	{regexp.MustCompile(`(?i)do you have ["']?([A-Za-z0-9\s]+)["']?`), 1},
	{regexp.MustCompile(`(?i)show me ["']?([A-Za-z0-9\s]+)["']?`), 1},
	{regexp.MustCompile(`(?i)can i (read|watch) ["']?([A-Za-z0-9\s]+)["']?`), 2},
	{regexp.MustCompile(`(?i)i want to (read|watch) ["']?([A-Za-z0-9\s]+)["']?`), 2},
	{regexp.MustCompile(`(?i)is there a book (called|titled|named) ["']?([A-Za-z0-9\s]+)["']?`), 2},
	{regexp.MustCompile(`(?i)is there a (video|movie) (called|titled|named) ["']?([A-Za-z0-9\s]+)["']?`), 3},
	{regexp.MustCompile(`(?i)(find|show|get) ["']?([A-Za-z0-9\s]+)["']?`), 2},
	{regexp.MustCompile(`(?i)is (the|a) ([A-Za-z0-9\s]+) available`), 2},
	{regexp.MustCompile(`(?i)do you have (the|a) ([A-Za-z0-9\s]+)`), 2},
	{regexp.MustCompile(`(?i)looking for (the|a) ([A-Za-z0-9\s]+)`), 2},
	{regexp.MustCompile(`(?i)how about (the|a|an)? ?([A-Za-z0-9\s]+)`), 2},
	{regexp.MustCompile(`(?i)what about (the|a|an)? ?([A-Za-z0-9\s]+)`), 2},
}

var (
	availabilityRe = regexp.MustCompile(`(?i)is\s+(.*?)\s+available`)
	leadingArticle = regexp.MustCompile(`(?i)^(the|a)\s+`)
	quotedTitleRe  = regexp.MustCompile(`"([^"]+)"`)
	trailingTypeRe = regexp.MustCompile(`(?i)\s+(books?|videos?|movies?|stories|story|shows?)$`)
)

// CheckTitle reports whether the question asks for a specific title and, if
// so, returns the extracted title. It works on the raw (case-preserving)
// question because the last-resort heuristic relies on capitalization.
func CheckTitle(question string, vocab Vocabulary) (bool, string) {
	// Question marks get in the way of extraction.
	clean := strings.ReplaceAll(question, "?", "")

	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(clean)
		if m == nil || p.group >= len(m) {
			continue
		}
		title := stripTrailingTypeWords(strings.TrimSpace(m[p.group]))
		if title == "" {
			continue
		}
		if plausibleTitle(title, vocab) {
			return true, title
		}
	}

	// Availability phrasing without an article: "is big fish little fish
	// available".
	lower := strings.ToLower(clean)
	if strings.Contains(lower, "is") && strings.Contains(lower, "available") {
		if m := availabilityRe.FindStringSubmatch(clean); m != nil {
			title := leadingArticle.ReplaceAllString(strings.TrimSpace(m[1]), "")
			title = stripTrailingTypeWords(title)
			if len(strings.Fields(title)) >= 2 {
				return true, title
			}
		}
	}

	// Bare title queries: "Harry Potter" typed on its own.
	words := strings.Fields(clean)
	if len(words) >= 2 && len(words) <= 6 {
		if m := quotedTitleRe.FindStringSubmatch(clean); m != nil {
			return true, strings.TrimSpace(m[1])
		}

		capitalized := make([]string, 0, len(words))
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			if unicode.IsUpper(r) && utf8.RuneCountInString(w) > 1 {
				capitalized = append(capitalized, w)
			}
		}
		if len(capitalized) >= 2 {
			return true, strings.Join(capitalized, " ")
		}
	}

	return false, ""
}

// vagueLeadWords start phrases that are requests, not titles: "show me
// something about dinosaurs" is browsing, not a lookup for a work named
// "something about dinosaurs".
var vagueLeadWords = map[string]struct{}{
	"something": {}, "anything": {}, "some": {}, "any": {},
	"stuff": {}, "it": {}, "me": {}, "us": {},
}

// plausibleTitle rejects one-word extractions unless the word is a known
// title keyword, keeping "find me" from becoming a title search. Phrases
// led by a vague word are rejected outright.
func plausibleTitle(title string, vocab Vocabulary) bool {
	words := strings.Fields(title)
	if len(words) > 0 {
		if _, vague := vagueLeadWords[strings.ToLower(words[0])]; vague {
			return false
		}
	}
	if len(words) >= 2 {
		return true
	}
	lower := strings.ToLower(title)
	for _, kw := range vocab.TitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// stripTrailingTypeWords removes a trailing content-type word so "Harry
// Potter book" searches for "Harry Potter".
func stripTrailingTypeWords(title string) string {
	for {
		stripped := trailingTypeRe.ReplaceAllString(title, "")
		if stripped == title {
			return title
		}
		title = stripped
	}
}

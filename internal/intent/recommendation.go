// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package intent

import (
	"regexp"
	"strings"
)

// RecommendationType names a recommendation retrieval strategy.
type RecommendationType string

const (
	// RecommendationPopular ranks by all-time popularity.
	RecommendationPopular RecommendationType = "popular"
	// RecommendationTrending ranks by recent popularity.
	RecommendationTrending RecommendationType = "trending"
	// RecommendationPersonal ranks by the child's interaction history.
	RecommendationPersonal RecommendationType = "recommended"
)

// ContentScope says which formats a recommendation request covers.
type ContentScope string

const (
	// ScopeBooks limits results to books.
	ScopeBooks ContentScope = "books"
	// ScopeVideos limits results to videos.
	ScopeVideos ContentScope = "videos"
	// ScopeBoth covers both formats.
	ScopeBoth ContentScope = "both"
)

// Recommendation is the outcome of recommendation-request detection.
//
// IsGenreRequest marks questions like "show me horror books" that name a
// genre with only generic verbs; those are handled as genre retrieval, not
// as a recommendation.
type Recommendation struct {
	IsRequest      bool
	Type           RecommendationType
	Scope          ContentScope
	ExplicitScope  bool
	Genre          string
	IsGenreRequest bool
	HighPriority   bool
	Combined       bool
	VeryGeneric    bool
}

// genericRecommendRe spots recommendation-ish verbs when no specific
// recommendation keyword is present.
var genericRecommendRe = regexp.MustCompile(`\b(recommend|show|get|find|suggest)\b`)

// veryGenericPatterns match bare queries like "what's popular?" where the
// child named no content type at all.
var veryGenericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*what'?s\s+(popular|trending)\s*(\?|\.|$)`),
	regexp.MustCompile(`^\s*what\s+is\s+(popular|trending)\s*(\?|\.|$)`),
	regexp.MustCompile(`^\s*show\s+(popular|trending)\s*(\?|\.|$)`),
}

// DetectRecommendation classifies recommendation requests, including
// combined "recommendation + genre + content type" questions such as
// "show popular horror books". availableGenres is the live genre
// vocabulary from the catalogue.
func DetectRecommendation(question string, availableGenres []string, vocab Vocabulary) Recommendation {
	q := strings.TrimSpace(strings.ToLower(question))

	detectedGenre := DetectGenre(q, availableGenres)

	recType, hasSpecific := detectRecommendationType(q, vocab)
	hasGeneric := !hasSpecific && genericRecommendRe.MatchString(q)
	isRequest := hasSpecific || hasGeneric

	if isRequest && detectedGenre != "" {
		// "show me horror books" with no popularity keyword is a plain
		// genre request; hand it back for genre retrieval.
		if hasGeneric {
			return Recommendation{IsGenreRequest: true, Genre: detectedGenre}
		}

		scope, explicit := detectScope(q, vocab)
		return Recommendation{
			IsRequest:     true,
			Type:          recType,
			Scope:         scope,
			ExplicitScope: explicit,
			Genre:         detectedGenre,
			HighPriority:  true,
			Combined:      true,
		}
	}

	if detectedGenre != "" {
		return Recommendation{IsGenreRequest: true, Genre: detectedGenre}
	}

	if isRequest {
		if !hasSpecific {
			recType = RecommendationPersonal
		}
		scope, explicit := detectScope(q, vocab)

		veryGeneric := false
		for _, re := range veryGenericPatterns {
			if re.MatchString(q) {
				veryGeneric = true
				break
			}
		}

		// Generic verbs alone ("show me something") rank below titles and
		// characters during resolution; a named popularity keyword wins.
		return Recommendation{
			IsRequest:     true,
			Type:          recType,
			Scope:         scope,
			ExplicitScope: explicit,
			HighPriority:  hasSpecific,
			VeryGeneric:   veryGeneric,
		}
	}

	return Recommendation{}
}

// detectRecommendationType finds a specific recommendation keyword set.
func detectRecommendationType(q string, vocab Vocabulary) (RecommendationType, bool) {
	sets := []struct {
		t     RecommendationType
		words []string
	}{
		{RecommendationPopular, vocab.PopularWords},
		{RecommendationTrending, vocab.TrendingWords},
		{RecommendationPersonal, vocab.PersonalWords},
	}
	for _, set := range sets {
		for _, w := range set.words {
			if strings.Contains(q, w) {
				return set.t, true
			}
		}
	}
	return "", false
}

// detectScope finds the content-type scope of a recommendation request.
func detectScope(q string, vocab Vocabulary) (ContentScope, bool) {
	for _, w := range vocab.RecommendationContentBooks {
		if strings.Contains(q, w) {
			return ScopeBooks, true
		}
	}
	for _, w := range vocab.RecommendationContentVideos {
		if strings.Contains(q, w) {
			return ScopeVideos, true
		}
	}
	return ScopeBoth, false
}

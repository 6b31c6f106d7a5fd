// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package intent implements the heuristic classifiers that turn a child's
// question into structured signals: title lookups, character mentions,
// content-type and recommendation requests, topic changes, and short
// continuity replies.
//
// Every classifier is a pure function over the question text plus a
// Vocabulary. The keyword lists are policy, not ground truth; callers that
// need different entity sets swap in their own Vocabulary rather than
// editing the classifiers.
package intent

// Vocabulary carries the keyword and entity lists the classifiers match
// against. DefaultVocabulary returns the built-in lists; all fields are
// plain slices so deployments can tune them from configuration or data.
type Vocabulary struct {
	// Characters are known character names, matched as substrings.
	Characters []string

	// TitleKeywords mark single-word extractions that are still plausible
	// titles ("potter", "batman"); without one, a candidate title must be
	// at least two words long.
	TitleKeywords []string

	// VideoWords and BookWords drive content-type detection.
	VideoWords []string
	BookWords  []string

	// PopularWords, TrendingWords and PersonalWords identify the three
	// recommendation types.
	PopularWords  []string
	TrendingWords []string
	PersonalWords []string

	// RecommendationContentBooks/Videos are the content-type keyword sets
	// used inside recommendation requests (wider than the plain
	// content-type lists).
	RecommendationContentBooks  []string
	RecommendationContentVideos []string

	// ContinuityPhrases keep a stored character alive ("more", "yes").
	ContinuityPhrases []string

	// TopicChangeWords explicitly signal the child moved on.
	TopicChangeWords []string

	// TopicEntities are characters, genres and content-type words whose
	// mention implies a new topic when they differ from the stored
	// character.
	TopicEntities []string

	// QuestionStarters open a fresh question ("what", "tell me about").
	QuestionStarters []string

	// ShortReplyWords are affirmative/negative/hedging words that mark a
	// short continuity reply.
	ShortReplyWords []string

	// LocationPhrases reference something already on screen ("this one"),
	// which permits reusing the stored content type.
	LocationPhrases []string
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Characters: []string{
			"spongebob", "peppa pig", "paw patrol", "harry potter",
			"tom and jerry", "dora", "mickey mouse", "lego", "superhero",
			"princess", "frozen", "elsa",
		},
		TitleKeywords: []string{
			"harry", "potter", "peppa", "pig", "disney", "spider", "batman",
			"fish", "fairy", "diary", "captain", "star", "wars", "boy", "girl",
		},
		VideoWords: []string{"videos", "episodes", "shows", "watch"},
		BookWords:  []string{"books", "stories", "read"},

		PopularWords:  []string{"popular", "top", "best", "most liked"},
		TrendingWords: []string{"trending", "latest", "new", "recent"},
		PersonalWords: []string{
			"recommended", "for me", "for you", "i would like", "i'd like",
			"suggest",
		},

		RecommendationContentBooks: []string{
			"book", "books", "story", "stories", "read",
		},
		RecommendationContentVideos: []string{
			"video", "videos", "watch", "movie", "movies", "film",
		},

		ContinuityPhrases: []string{
			"more", "another", "similar", "like that", "tell me more",
			"can i see", "show me", "again", "that one", "this one",
			"yes", "yeah",
		},
		TopicChangeWords: []string{
			"different", "something else", "new", "another", "instead",
			"other", "change", "not that", "don't want", "recommend",
			"suggest", "find", "what about", "rather", "prefer", "genre",
			"category", "type",
		},
		TopicEntities: []string{
			// Characters
			"spongebob", "peppa pig", "paw patrol", "harry potter",
			"tom and jerry", "dora", "mickey mouse", "lego", "superhero",
			"princess", "frozen", "elsa", "pokemon", "barbie", "disney",
			"marvel", "batman", "spiderman",
			// Genres and categories
			"adventure", "mystery", "science", "math", "animals",
			"dinosaurs", "space", "ocean", "forest", "fairy tale",
			"history", "sports", "music", "dance", "art", "food", "travel",
			"nature", "counting",
			// Content types
			"video", "book", "story", "show", "movie",
		},
		QuestionStarters: []string{
			"what", "how", "can you", "do you have", "is there",
			"are there", "tell me about", "show me", "find", "search",
		},
		ShortReplyWords: []string{
			"yes", "yeah", "yep", "sure", "ok", "okay", "please",
			"no", "nope", "nah", "not",
			"maybe", "perhaps", "possibly", "dunno", "not sure",
		},
		LocationPhrases: []string{
			"this one", "that one", "here", "over there", "the first one",
			"the second one",
		},
	}
}

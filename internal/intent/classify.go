// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package intent

import "github.com/fablehouse/fablehouse/internal/models"

// Result gathers every classifier's verdict for one question. Classifiers
// never conflict with each other here; precedence between overlapping
// detections is the resolver's job.
type Result struct {
	TitleQuery bool
	Title      string

	Character string
	Genre     string

	ContentType    models.Format
	HasContentType bool

	Recommendation Recommendation

	ShortResponse     bool
	LocationReference bool
}

// Classifier produces the fields of a Result it is responsible for. The
// signature is uniform so the pipeline stays an explicit ordered list.
type Classifier func(question string, genres []string, vocab Vocabulary, r *Result)

// Pipeline is the ordered classifier list applied to every question.
var Pipeline = []Classifier{
	classifyTitle,
	classifyCharacter,
	classifyGenre,
	classifyContentType,
	classifyRecommendation,
	classifyShortResponse,
	classifyLocationReference,
}

// Classify runs the full pipeline over a question. All classifiers are
// pure; running them is idempotent and side-effect-free.
func Classify(question string, genres []string, vocab Vocabulary) Result {
	var r Result
	for _, c := range Pipeline {
		c(question, genres, vocab, &r)
	}
	return r
}

func classifyTitle(question string, _ []string, vocab Vocabulary, r *Result) {
	r.TitleQuery, r.Title = CheckTitle(question, vocab)
}

func classifyCharacter(question string, _ []string, vocab Vocabulary, r *Result) {
	r.Character = DetectCharacter(question, vocab)
}

func classifyGenre(question string, genres []string, _ Vocabulary, r *Result) {
	r.Genre = DetectGenre(question, genres)
}

func classifyContentType(question string, _ []string, vocab Vocabulary, r *Result) {
	r.ContentType, r.HasContentType = DetectContentType(question, vocab)
}

func classifyRecommendation(question string, genres []string, vocab Vocabulary, r *Result) {
	r.Recommendation = DetectRecommendation(question, genres, vocab)
}

func classifyShortResponse(question string, _ []string, vocab Vocabulary, r *Result) {
	r.ShortResponse = IsShortResponse(question, vocab)
}

func classifyLocationReference(question string, _ []string, vocab Vocabulary, r *Result) {
	r.LocationReference = HasLocationReference(question, vocab)
}

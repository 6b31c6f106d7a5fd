// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package resolver merges the current question's classifications with the
// child's stored conversation context into the final retrieval parameters
// for the turn.
//
// Precedence is a single decision table: title > explicit character >
// stored character (unless a topic change is detected) > content-type and
// genre fallbacks. Each turn reads and writes the context store exactly
// once per relevant field.
package resolver

import (
	"github.com/fablehouse/fablehouse/internal/convo"
	"github.com/fablehouse/fablehouse/internal/intent"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/models"
)

// Resolution is the resolved set of retrieval parameters for one turn.
type Resolution struct {
	// Classification is the raw classifier output the decision was based
	// on.
	Classification intent.Result

	// TitleQuery and Title mirror the title classifier; when set they take
	// precedence over everything below.
	TitleQuery bool
	Title      string

	// Character is the active character for this turn ("" when none).
	Character string

	// CharacterFromContext marks a character carried over from a previous
	// turn rather than named in this one.
	CharacterFromContext bool

	// CharacterReset reports that a stored character was dropped because
	// the child changed topic.
	CharacterReset bool

	// Genre is the active genre for this turn ("" when none).
	Genre string

	// ContentType is the active format preference; HasContentType is false
	// when neither the question nor usable context named one.
	ContentType    models.Format
	HasContentType bool

	// Recommendation carries the recommendation classification, already
	// reconciled with stored context.
	Recommendation intent.Recommendation
}

// Resolver applies the decision table against a context store.
type Resolver struct {
	store *convo.Store
	vocab intent.Vocabulary
}

// New creates a Resolver around the given store and vocabulary.
func New(store *convo.Store, vocab intent.Vocabulary) *Resolver {
	return &Resolver{store: store, vocab: vocab}
}

// Resolve classifies the question and merges it with the child's stored
// context. It mutates the store: detected entities are written through,
// and stale context is cleared.
func (r *Resolver) Resolve(childID, question string, genres []string) Resolution {
	c := intent.Classify(question, genres, r.vocab)
	res := Resolution{Classification: c}

	// A named popularity keyword outranks everything; overlapping
	// phrasings like "show popular horror books" also look like titles.
	if c.Recommendation.IsRequest && c.Recommendation.HighPriority {
		res.Recommendation = c.Recommendation
		r.resolveRecommendation(childID, &res)
		return res
	}

	// Titles bypass character and genre resolution entirely.
	if c.TitleQuery {
		res.TitleQuery = true
		res.Title = c.Title
		r.store.Set(childID, convo.FieldTitle, c.Title)
		res.ContentType, res.HasContentType = r.resolveContentType(childID, c)
		return res
	}

	r.resolveCharacter(childID, question, c, &res)

	if c.Recommendation.IsGenreRequest {
		res.Genre = c.Recommendation.Genre
		r.store.Set(childID, convo.FieldGenre, res.Genre)
	} else if c.Genre != "" {
		res.Genre = c.Genre
		r.store.Set(childID, convo.FieldGenre, c.Genre)
	}

	res.ContentType, res.HasContentType = r.resolveContentType(childID, c)

	// Generic browse verbs ("show me something fun") become a
	// recommendation only when no character or genre gives a better path.
	if c.Recommendation.IsRequest && res.Character == "" && res.Genre == "" {
		res.Recommendation = c.Recommendation
		r.resolveRecommendation(childID, &res)
	}
	return res
}

// resolveRecommendation reconciles a recommendation request with context.
// A general recommendation supersedes a prior genre fixation, so the
// stored genre is cleared unless the request itself names one. High
// priority requests also drop any lingering title context.
func (r *Resolver) resolveRecommendation(childID string, res *Resolution) {
	rec := &res.Recommendation

	if rec.Genre != "" {
		r.store.Set(childID, convo.FieldGenre, rec.Genre)
		res.Genre = rec.Genre
	} else {
		r.store.ClearField(childID, convo.FieldGenre)
	}

	if rec.HighPriority {
		r.store.ClearField(childID, convo.FieldTitle)
	}

	// An explicit content type wins; otherwise stored preference applies
	// unless the query was too generic to scope ("what's popular?").
	if rec.ExplicitScope {
		r.writeScope(childID, rec.Scope)
		return
	}
	if rec.VeryGeneric {
		rec.Scope = intent.ScopeBoth
		return
	}
	if stored, ok := r.store.Get(childID, convo.FieldContentType); ok {
		switch models.Format(stored) {
		case models.FormatBook:
			rec.Scope = intent.ScopeBooks
		case models.FormatVideo:
			rec.Scope = intent.ScopeVideos
		}
	}
}

// writeScope persists an explicit recommendation scope as the content-type
// preference.
func (r *Resolver) writeScope(childID string, scope intent.ContentScope) {
	switch scope {
	case intent.ScopeBooks:
		r.store.Set(childID, convo.FieldContentType, string(models.FormatBook))
	case intent.ScopeVideos:
		r.store.Set(childID, convo.FieldContentType, string(models.FormatVideo))
	}
}

// resolveCharacter picks the active character: one named in the question
// wins and is written through; otherwise a stored character survives only
// if the topic-change classifier lets it.
func (r *Resolver) resolveCharacter(childID, question string, c intent.Result, res *Resolution) {
	if c.Character != "" {
		res.Character = c.Character
		r.store.Set(childID, convo.FieldCharacter, c.Character)
		return
	}

	stored, ok := r.store.Get(childID, convo.FieldCharacter)
	if !ok {
		return
	}

	if intent.ShouldResetCharacter(question, stored, r.vocab) {
		logging.Debug().
			Str("child_id", childID).
			Str("character", stored).
			Msg("dropping stored character after topic change")
		r.store.ClearField(childID, convo.FieldCharacter)
		res.CharacterReset = true
		return
	}

	res.Character = stored
	res.CharacterFromContext = true
}

// resolveContentType applies explicit detection first; a short continuity
// reply or a location reference ("this one") may fall back to the stored
// preference.
func (r *Resolver) resolveContentType(childID string, c intent.Result) (models.Format, bool) {
	if c.HasContentType {
		r.store.Set(childID, convo.FieldContentType, string(c.ContentType))
		return c.ContentType, true
	}

	if c.ShortResponse || c.LocationReference {
		if stored, ok := r.store.Get(childID, convo.FieldContentType); ok {
			return models.Format(stored), true
		}
	}
	return "", false
}

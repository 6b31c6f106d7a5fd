// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package resolver

import (
	"testing"
	"time"

	"github.com/fablehouse/fablehouse/internal/convo"
	"github.com/fablehouse/fablehouse/internal/intent"
	"github.com/fablehouse/fablehouse/internal/models"
)

func newTestResolver() (*Resolver, *convo.Store) {
	store := convo.NewStore(10 * time.Minute)
	return New(store, intent.DefaultVocabulary()), store
}

func TestTitleTakesPrecedence(t *testing.T) {
	r, store := newTestResolver()

	res := r.Resolve("child-1", "Is Harry Potter available?", nil)

	if !res.TitleQuery || res.Title != "Harry Potter" {
		t.Fatalf("expected title query Harry Potter, got %+v", res)
	}
	// Title bypasses character resolution even though "harry potter" is a
	// known character.
	if res.Character != "" {
		t.Errorf("expected no active character on title turn, got %q", res.Character)
	}
	if got, ok := store.Get("child-1", convo.FieldTitle); !ok || got != "Harry Potter" {
		t.Errorf("expected title written to store, got (%q, %v)", got, ok)
	}
}

func TestExplicitCharacterWritesThrough(t *testing.T) {
	r, store := newTestResolver()

	res := r.Resolve("child-1", "i love spongebob episodes", nil)

	if res.Character != "spongebob" {
		t.Fatalf("expected spongebob active, got %q", res.Character)
	}
	if res.CharacterFromContext {
		t.Error("character came from the question, not context")
	}
	if got, _ := store.Get("child-1", convo.FieldCharacter); got != "spongebob" {
		t.Errorf("expected character stored, got %q", got)
	}
	if !res.HasContentType || res.ContentType != models.FormatVideo {
		t.Errorf("expected video content type from 'episodes', got %+v", res)
	}
}

func TestStoredCharacterSurvivesContinuity(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldCharacter, "spongebob")

	res := r.Resolve("child-1", "yes please", nil)

	if res.Character != "spongebob" || !res.CharacterFromContext {
		t.Fatalf("expected stored spongebob reused, got %+v", res)
	}
	if res.CharacterReset {
		t.Error("continuity reply must not reset the character")
	}
}

func TestStoredCharacterResetOnTopicChange(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldCharacter, "spongebob")

	res := r.Resolve("child-1", "show me something about dinosaurs", nil)

	if res.Character != "" {
		t.Errorf("expected no active character after topic change, got %q", res.Character)
	}
	if !res.CharacterReset {
		t.Error("expected CharacterReset to be reported")
	}
	if _, ok := store.Get("child-1", convo.FieldCharacter); ok {
		t.Error("expected stored character cleared")
	}
}

func TestGenreWrittenThrough(t *testing.T) {
	r, store := newTestResolver()

	res := r.Resolve("child-1", "show me horror books", []string{"horror"})

	if res.Genre != "horror" {
		t.Fatalf("expected genre horror, got %+v", res)
	}
	if got, _ := store.Get("child-1", convo.FieldGenre); got != "horror" {
		t.Errorf("expected genre stored, got %q", got)
	}
}

func TestRecommendationClearsStoredGenre(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldGenre, "horror")

	res := r.Resolve("child-1", "what's popular?", nil)

	if !res.Recommendation.IsRequest {
		t.Fatal("expected recommendation request")
	}
	if _, ok := store.Get("child-1", convo.FieldGenre); ok {
		t.Error("expected stored genre cleared by general recommendation")
	}
}

func TestRecommendationWithGenreKeepsGenre(t *testing.T) {
	r, store := newTestResolver()

	res := r.Resolve("child-1", "show popular horror books", []string{"horror"})

	if !res.Recommendation.IsRequest || res.Recommendation.Genre != "horror" {
		t.Fatalf("expected combined request with horror, got %+v", res.Recommendation)
	}
	if got, _ := store.Get("child-1", convo.FieldGenre); got != "horror" {
		t.Errorf("expected named genre written through, got %q", got)
	}
	if res.Recommendation.Scope != intent.ScopeBooks {
		t.Errorf("expected books scope, got %q", res.Recommendation.Scope)
	}
}

func TestRecommendationUsesStoredContentType(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldContentType, string(models.FormatBook))

	res := r.Resolve("child-1", "suggest something good please", nil)

	if res.Recommendation.Scope != intent.ScopeBooks {
		t.Errorf("expected stored book preference applied, got %q", res.Recommendation.Scope)
	}
}

func TestVeryGenericRecommendationIgnoresStoredContentType(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldContentType, string(models.FormatBook))

	res := r.Resolve("child-1", "what's trending?", nil)

	if res.Recommendation.Scope != intent.ScopeBoth {
		t.Errorf("expected both scopes on very generic query, got %q", res.Recommendation.Scope)
	}
}

func TestContentTypeFallbackOnShortReply(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldContentType, string(models.FormatVideo))

	res := r.Resolve("child-1", "yes", nil)

	if !res.HasContentType || res.ContentType != models.FormatVideo {
		t.Errorf("expected stored video type on short reply, got %+v", res)
	}
}

func TestContentTypeNoFallbackOnFullQuestion(t *testing.T) {
	r, store := newTestResolver()
	store.Set("child-1", convo.FieldContentType, string(models.FormatVideo))

	res := r.Resolve("child-1", "do you know anything fun about dinosaurs and volcanoes", nil)

	if res.HasContentType {
		t.Errorf("expected no content type for unrelated question, got %q", res.ContentType)
	}
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package dispatch routes a resolved question to the retrieval path that
// can answer it. Paths are tried in priority order: recommendation,
// title, genre, character, then the language model. A path that finds
// nothing (or whose results are all removed by the safety filter)
// degrades to the next path, ending at the language model; only a failed
// language model call surfaces to the caller.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fablehouse/fablehouse/internal/intent"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/metrics"
	"github.com/fablehouse/fablehouse/internal/models"
	"github.com/fablehouse/fablehouse/internal/resolver"
	"github.com/fablehouse/fablehouse/internal/safety"
)

// ErrGenerator marks a language model failure on a question no catalogue
// path could answer.
var ErrGenerator = errors.New("language model call failed")

// Answer sources, surfaced to clients and metrics.
const (
	SourceTitle          = "title"
	SourceCharacter      = "character"
	SourceGenre          = "genre"
	SourceRecommendation = "recommendation"
	SourceGenerator      = "generator"
	SourceFallback       = "fallback"
)

// ContentRepository is the catalogue surface the dispatcher queries.
type ContentRepository interface {
	SearchTitle(ctx context.Context, query string, format models.Format) ([]models.ContentItem, error)
	SearchCharacter(ctx context.Context, character string) ([]models.ContentItem, error)
	FindByGenre(ctx context.Context, genre string, format models.Format) ([]models.ContentItem, error)
	Popular(ctx context.Context, childAge int, format models.Format) ([]models.ContentItem, error)
	Trending(ctx context.Context, childAge int, format models.Format) ([]models.ContentItem, error)
	Personalized(ctx context.Context, childID string, childAge int, format models.Format) ([]models.ContentItem, error)
	ListGenres(ctx context.Context) ([]string, error)
}

// ChildDirectory resolves per-child safety inputs.
type ChildDirectory interface {
	ChildAge(ctx context.Context, childID string) (age int, found bool, err error)
	BlockedGenres(ctx context.Context, childID string) ([]string, error)
}

// HistoryStore persists chat turns and feeds conversation history into
// language model prompts.
type HistoryStore interface {
	AppendChatTurn(ctx context.Context, turn models.ChatTurn) error
	RecentChatTurns(ctx context.Context, childID string, limit int) ([]models.ChatTurn, error)
}

// Generator answers questions no catalogue path serves. Nil disables the
// path.
type Generator interface {
	Generate(ctx context.Context, question string, childAge int, history []models.ChatTurn) (string, error)
}

// Dispatcher answers chat questions.
type Dispatcher struct {
	repo         ContentRepository
	children     ChildDirectory
	history      HistoryStore
	gen          Generator
	resolver     *resolver.Resolver
	policy       *safety.Policy
	historyLimit int
}

// New wires a Dispatcher. gen may be nil when the language model is
// disabled; those questions get a static fallback answer instead.
func New(repo ContentRepository, children ChildDirectory, history HistoryStore, gen Generator, res *resolver.Resolver, policy *safety.Policy, historyLimit int) *Dispatcher {
	return &Dispatcher{
		repo:         repo,
		children:     children,
		history:      history,
		gen:          gen,
		resolver:     res,
		policy:       policy,
		historyLimit: historyLimit,
	}
}

// Answer resolves and answers one question from a child.
func (d *Dispatcher) Answer(ctx context.Context, childID, question string) (models.ChatAnswer, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	genres, err := d.repo.ListGenres(ctx)
	if err != nil {
		// Classification degrades gracefully without the genre list.
		log.Warn().Err(err).Msg("genre list unavailable")
	}

	res := d.resolver.Resolve(childID, question, genres)

	age, found, err := d.children.ChildAge(ctx, childID)
	if err != nil {
		log.Warn().Err(err).Str("child_id", childID).Msg("child age lookup failed")
		found = false
	}
	childAge := d.policy.EffectiveAge(age, found)

	blocked, err := d.children.BlockedGenres(ctx, childID)
	if err != nil {
		log.Warn().Err(err).Str("child_id", childID).Msg("blocked genre lookup failed")
	}

	d.appendTurn(ctx, childID, question, false)

	answer, err := d.route(ctx, childID, question, res, childAge, blocked)
	if err != nil {
		return models.ChatAnswer{}, err
	}

	d.appendTurn(ctx, childID, answer.Message, true)
	metrics.RecordChatAnswer(answer.Source, time.Since(start))
	log.Debug().
		Str("child_id", childID).
		Str("source", answer.Source).
		Int("books", len(answer.Books)).
		Int("videos", len(answer.Videos)).
		Msg("question answered")
	return answer, nil
}

func (d *Dispatcher) route(ctx context.Context, childID, question string, res resolver.Resolution, childAge int, blocked []string) (models.ChatAnswer, error) {
	if res.Recommendation.IsRequest {
		if answer, ok := d.answerRecommendation(ctx, childID, res, childAge, blocked); ok {
			return answer, nil
		}
	}
	if res.TitleQuery {
		if answer, ok := d.answerTitle(ctx, res, childAge, blocked); ok {
			return answer, nil
		}
	}
	if res.Genre != "" {
		if answer, ok := d.answerGenre(ctx, res, childAge, blocked); ok {
			return answer, nil
		}
	}
	if res.Character != "" {
		if answer, ok := d.answerCharacter(ctx, res, childAge, blocked); ok {
			return answer, nil
		}
	}
	return d.answerGenerated(ctx, childID, question, childAge)
}

// answerRecommendation serves popular, trending and personalized picks.
func (d *Dispatcher) answerRecommendation(ctx context.Context, childID string, res resolver.Resolution, childAge int, blocked []string) (models.ChatAnswer, bool) {
	rec := res.Recommendation

	// A genre constraint narrows recommendations to that genre's shelf.
	var items []models.ContentItem
	var err error
	if rec.Genre != "" {
		items, err = d.repo.FindByGenre(ctx, rec.Genre, scopeFormat(rec.Scope))
	} else {
		items, err = d.fetchRecommendations(ctx, childID, rec, childAge)
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("type", string(rec.Type)).Msg("recommendation query failed")
	}

	books, videos := d.gate(items, childAge, blocked, rec.Scope)
	if len(books) == 0 && len(videos) == 0 {
		return models.ChatAnswer{}, false
	}
	return models.ChatAnswer{
		Message:            recommendationMessage(rec, len(books), len(videos)),
		Books:              books,
		Videos:             videos,
		Genre:              rec.Genre,
		RecommendationType: string(rec.Type),
		Source:             SourceRecommendation,
	}, true
}

func (d *Dispatcher) fetchRecommendations(ctx context.Context, childID string, rec intent.Recommendation, childAge int) ([]models.ContentItem, error) {
	format := scopeFormat(rec.Scope)
	switch rec.Type {
	case intent.RecommendationTrending:
		return d.repo.Trending(ctx, childAge, format)
	case intent.RecommendationPersonal:
		return d.repo.Personalized(ctx, childID, childAge, format)
	default:
		return d.repo.Popular(ctx, childAge, format)
	}
}

// answerTitle looks a specific title up.
func (d *Dispatcher) answerTitle(ctx context.Context, res resolver.Resolution, childAge int, blocked []string) (models.ChatAnswer, bool) {
	format := models.Format("")
	if res.HasContentType {
		format = res.ContentType
	}
	items, err := d.repo.SearchTitle(ctx, res.Title, format)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("title", res.Title).Msg("title search failed")
	}

	books, videos := d.gate(items, childAge, blocked, formatScope(format))
	if len(books) == 0 && len(videos) == 0 {
		return models.ChatAnswer{}, false
	}
	return models.ChatAnswer{
		Message: foundMessage(len(books), len(videos)),
		Books:   books,
		Videos:  videos,
		Title:   res.Title,
		Source:  SourceTitle,
	}, true
}

func (d *Dispatcher) answerGenre(ctx context.Context, res resolver.Resolution, childAge int, blocked []string) (models.ChatAnswer, bool) {
	format := models.Format("")
	if res.HasContentType {
		format = res.ContentType
	}
	items, err := d.repo.FindByGenre(ctx, res.Genre, format)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("genre", res.Genre).Msg("genre search failed")
		return models.ChatAnswer{}, false
	}

	books, videos := d.gate(items, childAge, blocked, formatScope(format))
	if len(books) == 0 && len(videos) == 0 {
		return models.ChatAnswer{}, false
	}
	return models.ChatAnswer{
		Message: foundMessage(len(books), len(videos)),
		Books:   books,
		Videos:  videos,
		Genre:   res.Genre,
		Source:  SourceGenre,
	}, true
}

func (d *Dispatcher) answerCharacter(ctx context.Context, res resolver.Resolution, childAge int, blocked []string) (models.ChatAnswer, bool) {
	items, err := d.repo.SearchCharacter(ctx, res.Character)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("character", res.Character).Msg("character search failed")
		return models.ChatAnswer{}, false
	}

	scope := intent.ScopeBoth
	if res.HasContentType {
		scope = formatScope(res.ContentType)
	}
	books, videos := d.gate(items, childAge, blocked, scope)
	if len(books) == 0 && len(videos) == 0 {
		return models.ChatAnswer{}, false
	}
	return models.ChatAnswer{
		Message:   foundMessage(len(books), len(videos)),
		Books:     books,
		Videos:    videos,
		Character: res.Character,
		Source:    SourceCharacter,
	}, true
}

func (d *Dispatcher) answerGenerated(ctx context.Context, childID, question string, childAge int) (models.ChatAnswer, error) {
	if d.gen == nil {
		return models.ChatAnswer{
			Message: "I'm best at finding books and videos! Try asking me for a story, a character you like, or what's popular.",
			Source:  SourceFallback,
		}, nil
	}

	var history []models.ChatTurn
	if d.history != nil && d.historyLimit > 0 {
		var err error
		history, err = d.history.RecentChatTurns(ctx, childID, d.historyLimit)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("chat history unavailable for prompt")
		}
	}

	start := time.Now()
	message, err := d.gen.Generate(ctx, question, childAge, history)
	metrics.RecordGeneratorCall(time.Since(start), err)
	if err != nil {
		return models.ChatAnswer{}, fmt.Errorf("%w: %v", ErrGenerator, err)
	}
	return models.ChatAnswer{Message: message, Source: SourceGenerator}, nil
}

// gate applies the safety policy and splits results by format, honoring
// the requested scope.
func (d *Dispatcher) gate(items []models.ContentItem, childAge int, blocked []string, scope intent.ContentScope) (books, videos []models.ContentItem) {
	filtered := d.policy.Filter(items, childAge, blocked)
	metrics.RecordSafetyDrop("filtered", len(items)-len(filtered))

	allBooks, allVideos := safety.SplitByFormat(filtered)
	capped := 0
	if scope != intent.ScopeVideos {
		books = d.policy.Sample(allBooks)
		capped += len(allBooks) - len(books)
	}
	if scope != intent.ScopeBooks {
		videos = d.policy.Sample(allVideos)
		capped += len(allVideos) - len(videos)
	}
	metrics.RecordSafetyDrop("cap", capped)
	return books, videos
}

func (d *Dispatcher) appendTurn(ctx context.Context, childID, message string, isBot bool) {
	if d.history == nil || message == "" {
		return
	}
	turn := models.ChatTurn{ChildID: childID, Message: message, IsBot: isBot}
	if err := d.history.AppendChatTurn(ctx, turn); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("child_id", childID).Msg("failed to record chat turn")
	}
}

func scopeFormat(scope intent.ContentScope) models.Format {
	switch scope {
	case intent.ScopeBooks:
		return models.FormatBook
	case intent.ScopeVideos:
		return models.FormatVideo
	default:
		return ""
	}
}

func formatScope(format models.Format) intent.ContentScope {
	switch format {
	case models.FormatBook:
		return intent.ScopeBooks
	case models.FormatVideo:
		return intent.ScopeVideos
	default:
		return intent.ScopeBoth
	}
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/fablehouse/fablehouse/internal/convo"
	"github.com/fablehouse/fablehouse/internal/dispatch"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/models"
)

// historyPageSize caps one chat history response.
const historyPageSize = 50

// Answerer answers one chat question. Implemented by dispatch.Dispatcher.
type Answerer interface {
	Answer(ctx context.Context, childID, question string) (models.ChatAnswer, error)
}

// HistoryReader serves a child's stored chat turns.
type HistoryReader interface {
	RecentChatTurns(ctx context.Context, childID string, limit int) ([]models.ChatTurn, error)
}

// Pinger reports storage liveness for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	answerer Answerer
	history  HistoryReader
	store    *convo.Store
	db       Pinger
	validate *validator.Validate
}

// NewHandler wires a Handler.
func NewHandler(answerer Answerer, history HistoryReader, store *convo.Store, db Pinger) *Handler {
	return &Handler{
		answerer: answerer,
		history:  history,
		store:    store,
		db:       db,
		validate: validator.New(),
	}
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidJSON, "request body is not valid JSON")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"request failed validation", validationDetails(err))
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.ChildID, req.Question)
	if err != nil {
		if errors.Is(err, dispatch.ErrGenerator) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("generator failed")
			rw.Error(http.StatusBadGateway, ErrCodeGeneratorError,
				"I couldn't think of an answer right now, please try again")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("chat answer failed")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "something went wrong")
		return
	}

	rw.Success(answer)
}

// ChatHistory handles GET /api/v1/chat/history/{childID}.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	childID := chi.URLParam(r, "childID")
	if childID == "" {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "childID is required")
		return
	}

	limit := historyPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	turns, err := h.history.RecentChatTurns(r.Context(), childID, limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("child_id", childID).Msg("history lookup failed")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "could not load chat history")
		return
	}
	if turns == nil {
		turns = []models.ChatTurn{}
	}
	rw.Success(turns)
}

// Context handles GET /api/v1/context/{childID}; it exposes the live
// conversation context for debugging and parental transparency. An
// optional ?field= query narrows the view to a single slot.
func (h *Handler) Context(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	childID := chi.URLParam(r, "childID")
	if childID == "" {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "childID is required")
		return
	}

	if raw := r.URL.Query().Get("field"); raw != "" {
		field, ok := contextField(raw)
		if !ok {
			rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "unknown context field "+strconv.Quote(raw))
			return
		}
		view := map[convo.Field]string{}
		if value, ok := h.store.Get(childID, field); ok {
			view[field] = value
		}
		rw.Success(view)
		return
	}

	snapshot := h.store.Snapshot(childID)
	if snapshot == nil {
		snapshot = map[convo.Field]string{}
	}
	rw.Success(snapshot)
}

// ClearContext handles DELETE /api/v1/context/{childID}. An optional
// ?field= query clears a single slot instead of the whole record.
func (h *Handler) ClearContext(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	childID := chi.URLParam(r, "childID")
	if childID == "" {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "childID is required")
		return
	}

	if raw := r.URL.Query().Get("field"); raw != "" {
		field, ok := contextField(raw)
		if !ok {
			rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "unknown context field "+strconv.Quote(raw))
			return
		}
		h.store.ClearField(childID, field)
		rw.NoContent()
		return
	}

	h.store.Clear(childID)
	rw.NoContent()
}

// contextField maps a query-string name to a context store field.
func contextField(name string) (convo.Field, bool) {
	switch convo.Field(name) {
	case convo.FieldCharacter, convo.FieldGenre, convo.FieldContentType, convo.FieldTitle:
		return convo.Field(name), true
	}
	return "", false
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready; ready means the
// database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "database unavailable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// validationDetails flattens validator errors into field/tag pairs.
func validationDetails(err error) map[string]interface{} {
	details := make(map[string]interface{})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}

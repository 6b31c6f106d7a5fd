// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package convo implements the per-child conversation context store.
//
// The store remembers short-lived conversational state (the character,
// genre, content type, and title a child last talked about) so follow-up
// questions like "show me more" can be resolved. A child's record expires
// as a unit after a sliding TTL; any write refreshes the whole record, so
// an active conversation never loses context mid-stream. Expiry is
// enforced on read; a background sweep only bounds memory, so correctness
// never depends on sweep timing.
package convo

import (
	"sync"
	"time"
)

// Field names a single slot of conversational state.
type Field string

const (
	// FieldCharacter is the character the child asked about ("peppa pig").
	FieldCharacter Field = "character"
	// FieldGenre is the last genre of interest ("adventure").
	FieldGenre Field = "genre"
	// FieldContentType is the preferred content type ("book" or "video").
	FieldContentType Field = "content_type"
	// FieldTitle is the last specific title looked up.
	FieldTitle Field = "title"
)

// record is one child's conversational state with its last-write time.
// All fields share the timestamp: the record lives and dies as a unit.
type record struct {
	fields    map[Field]string
	updatedAt time.Time
}

// Store is a thread-safe, TTL-bounded conversation context store keyed by
// child ID.
type Store struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]*record

	// now is replaceable in tests.
	now func() time.Time
}

// NewStore creates a Store with the given sliding TTL per child record.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:  ttl,
		data: make(map[string]*record),
		now:  time.Now,
	}
}

// Set stores value under the child's field and resets the whole record's
// TTL. Empty values are ignored.
func (s *Store) Set(childID string, field Field, value string) {
	if childID == "" || value == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[childID]
	if !ok || s.expired(rec) {
		rec = &record{fields: make(map[Field]string)}
		s.data[childID] = rec
	}
	rec.fields[field] = value
	rec.updatedAt = s.now()
}

// Get returns the value for the child's field if the record is unexpired.
// An expired record is deleted and reported as absent, so stale context
// can never leak into a resolution even if the sweeper is behind.
func (s *Store) Get(childID string, field Field) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[childID]
	if !ok {
		return "", false
	}
	if s.expired(rec) {
		delete(s.data, childID)
		return "", false
	}
	value, ok := rec.fields[field]
	return value, ok
}

// Snapshot returns all fields of an unexpired record, deleting an expired
// one along the way. The returned map is a copy.
func (s *Store) Snapshot(childID string) map[Field]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[childID]
	if !ok {
		return nil
	}
	if s.expired(rec) {
		delete(s.data, childID)
		return nil
	}

	out := make(map[Field]string, len(rec.fields))
	for f, v := range rec.fields {
		out[f] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clear removes all stored fields for a child.
func (s *Store) Clear(childID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, childID)
}

// ClearField removes a single stored field for a child. The record's TTL
// is untouched; clearing is not conversational activity.
func (s *Store) ClearField(childID string, field Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.data[childID]; ok {
		delete(rec.fields, field)
		if len(rec.fields) == 0 {
			delete(s.data, childID)
		}
	}
}

// Sweep removes all expired records and returns how many stored fields
// were dropped. Called periodically by the sweeper service; purely a
// memory bound.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for childID, rec := range s.data {
		if s.expired(rec) {
			removed += len(rec.fields)
			delete(s.data, childID)
		}
	}
	return removed
}

// Len returns the number of children with any stored context.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// expired reports whether rec has outlived the TTL (must hold s.mu).
func (s *Store) expired(rec *record) bool {
	return s.now().Sub(rec.updatedAt) > s.ttl
}

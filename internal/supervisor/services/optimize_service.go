// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package services

import (
	"context"
	"time"

	"github.com/fablehouse/fablehouse/internal/logging"
)

// SearchIndexOptimizer compacts a full-text search index. Implemented by
// the database layer.
type SearchIndexOptimizer interface {
	OptimizeSearchIndex(ctx context.Context) error
}

// OptimizeService periodically merges the full-text index's b-trees so
// title search stays fast as the catalogue grows.
type OptimizeService struct {
	db       SearchIndexOptimizer
	interval time.Duration
}

// NewOptimizeService creates the index maintenance service.
func NewOptimizeService(db SearchIndexOptimizer, interval time.Duration) *OptimizeService {
	return &OptimizeService{db: db, interval: interval}
}

// Serve implements suture.Service. Optimization failures are logged and
// retried next interval; they never crash the service.
func (s *OptimizeService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.db.OptimizeSearchIndex(ctx); err != nil {
				log.Warn().Err(err).Msg("search index optimization failed")
				continue
			}
			log.Debug().Msg("search index optimized")
		}
	}
}

func (s *OptimizeService) String() string { return "search-index-optimizer" }

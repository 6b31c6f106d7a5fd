// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package services

import (
	"context"
	"time"

	"github.com/fablehouse/fablehouse/internal/convo"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/metrics"
)

// SweeperService periodically removes expired conversation context.
// Expiry is also enforced on read; the sweeper just keeps idle children
// from holding memory.
type SweeperService struct {
	store    *convo.Store
	interval time.Duration
}

// NewSweeperService creates a sweeper running every interval.
func NewSweeperService(store *convo.Store, interval time.Duration) *SweeperService {
	return &SweeperService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := s.store.Sweep()
			metrics.RecordContextSweep(removed, s.store.Len())
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("swept expired conversation context")
			}
		}
	}
}

func (s *SweeperService) String() string { return "context-sweeper" }

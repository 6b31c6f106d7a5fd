// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package safety applies child-appropriateness rules to catalogue
// results. Every result set shown to a child passes through here: age
// gating, guardian genre blocks, and a shuffled cap per content type so
// answers stay short and varied.
package safety

import (
	"math/rand"
	"strings"

	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/models"
)

// Policy filters and trims content for one deployment's safety settings.
type Policy struct {
	defaultAge int
	maxPerType int
	shuffle    func(n int, swap func(i, j int))
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(cfg *config.SafetyConfig) *Policy {
	return &Policy{
		defaultAge: cfg.DefaultChildAge,
		maxPerType: cfg.MaxResultsPerType,
		shuffle:    rand.Shuffle,
	}
}

// EffectiveAge resolves the age used for gating. Unregistered children
// get the configured default.
func (p *Policy) EffectiveAge(age int, found bool) int {
	if !found {
		return p.defaultAge
	}
	return age
}

// Filter drops items a child must not see: anything not approved, above
// their age, or tagged with a guardian-blocked genre.
func (p *Policy) Filter(items []models.ContentItem, childAge int, blockedGenres []string) []models.ContentItem {
	blocked := make(map[string]struct{}, len(blockedGenres))
	for _, g := range blockedGenres {
		blocked[strings.ToLower(g)] = struct{}{}
	}

	kept := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if item.Status != models.StatusApproved {
			continue
		}
		if item.MinimumAge > childAge {
			continue
		}
		if hasBlockedGenre(item, blocked) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func hasBlockedGenre(item models.ContentItem, blocked map[string]struct{}) bool {
	for _, g := range item.Genres {
		if _, hit := blocked[strings.ToLower(g)]; hit {
			return true
		}
	}
	return false
}

// Sample shuffles items and caps them at the per-type limit so repeated
// questions show different picks.
func (p *Policy) Sample(items []models.ContentItem) []models.ContentItem {
	if len(items) <= p.maxPerType {
		out := make([]models.ContentItem, len(items))
		copy(out, items)
		p.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	shuffled := make([]models.ContentItem, len(items))
	copy(shuffled, items)
	p.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:p.maxPerType]
}

// SplitByFormat partitions items into books and videos, preserving order.
func SplitByFormat(items []models.ContentItem) (books, videos []models.ContentItem) {
	for _, item := range items {
		switch item.Format {
		case models.FormatBook:
			books = append(books, item)
		case models.FormatVideo:
			videos = append(videos, item)
		}
	}
	return books, videos
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/models"
)

// titleSearchLimit caps raw results per strategy before safety filtering.
const titleSearchLimit = 10

var (
	availabilityPhraseRe = regexp.MustCompile(`is\s+.*?\s+available\??`)
	leadInPhraseRes      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)where can i (find|get|read|watch)`),
		regexp.MustCompile(`(?i)do you have`),
		regexp.MustCompile(`(?i)show me`),
		regexp.MustCompile(`(?i)can i (read|watch)`),
		regexp.MustCompile(`(?i)i want to (read|watch)`),
	}
	punctuationRe = regexp.MustCompile(`[^\w\s]`)
)

// titleStopWords are dropped from title queries; they carry no signal for
// matching catalogue titles.
var titleStopWords = map[string]struct{}{
	"is": {}, "are": {}, "the": {}, "a": {}, "an": {}, "available": {},
	"here": {}, "there": {}, "can": {}, "i": {}, "find": {},
}

// CleanTitleQuery strips question phrasing, punctuation and stop words
// from a title query. If cleaning would remove everything, the
// punctuation-stripped original is kept instead.
func CleanTitleQuery(query string) string {
	lowered := strings.ToLower(query)
	original := strings.Fields(punctuationRe.ReplaceAllString(lowered, ""))

	clean := availabilityPhraseRe.ReplaceAllString(lowered, "")
	for _, re := range leadInPhraseRes {
		clean = re.ReplaceAllString(clean, "")
	}
	clean = punctuationRe.ReplaceAllString(clean, "")

	kept := make([]string, 0, len(original))
	for _, w := range strings.Fields(clean) {
		if _, stop := titleStopWords[w]; !stop {
			kept = append(kept, w)
		}
	}
	// Over-aggressive cleaning ("Is It Available?") reverts to all words.
	if len(kept) == 0 {
		kept = original
	}
	return strings.Join(kept, " ")
}

// escapeFTSQuery blanks out FTS5 operator characters so user text can
// never change the query structure.
func escapeFTSQuery(query string) string {
	const specials = `"^$*:()-/&+<>=[]{}|`
	escaped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(specials, r) {
			return ' '
		}
		return r
	}, query)
	return strings.Join(strings.Fields(escaped), " ")
}

// SearchTitle finds approved catalogue entries matching a title query. It
// cascades through four strategies, stopping at the first that yields
// rows: exact title, substring, FTS5 phrase, FTS5 per-word AND. format
// narrows results to one content type when non-empty.
func (db *DB) SearchTitle(ctx context.Context, query string, format models.Format) ([]models.ContentItem, error) {
	clean := CleanTitleQuery(query)
	if clean == "" {
		return nil, fmt.Errorf("empty title query after cleaning")
	}

	formatCond := ""
	args := []interface{}{models.StatusApproved}
	if format != "" {
		formatCond = " AND c.format = ?"
		args = append(args, string(format))
	}

	// Strategy 1: exact title match.
	items, err := db.queryContent(ctx, "search_title", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE LOWER(c.title) = LOWER(?) AND c.status = ?%s
		LIMIT %d`, contentColumns, formatCond, titleSearchLimit),
		append([]interface{}{clean}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("exact title search failed: %w", err)
	}
	if len(items) > 0 {
		return items, nil
	}

	// Strategy 2: substring match.
	items, err = db.queryContent(ctx, "search_title", fmt.Sprintf(`
		SELECT %s FROM content c
		WHERE c.title LIKE ? COLLATE NOCASE AND c.status = ?%s
		LIMIT %d`, contentColumns, formatCond, titleSearchLimit),
		append([]interface{}{"%" + clean + "%"}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("substring title search failed: %w", err)
	}
	if len(items) > 0 {
		return items, nil
	}

	escaped := escapeFTSQuery(clean)
	if escaped == "" {
		return nil, nil
	}

	// Strategy 3: FTS5 phrase match with bm25 ranking.
	items, err = db.searchTitleFTS(ctx, `"`+escaped+`"`, formatCond, args)
	if err != nil {
		// FTS syntax problems degrade to the word strategy rather than
		// failing the lookup.
		logging.Warn().Err(err).Str("query", escaped).Msg("FTS phrase search failed")
	}
	if len(items) > 0 {
		return items, nil
	}

	// Strategy 4: all words, any order.
	words := strings.Fields(escaped)
	items, err = db.searchTitleFTS(ctx, strings.Join(words, " AND "), formatCond, args)
	if err != nil {
		logging.Warn().Err(err).Str("query", escaped).Msg("FTS word search failed")
		return nil, nil
	}
	return items, nil
}

// searchTitleFTS runs one FTS5 match expression against the title index.
func (db *DB) searchTitleFTS(ctx context.Context, match, formatCond string, filterArgs []interface{}) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content_fts f
		JOIN content c ON c.id = f.rowid
		WHERE content_fts MATCH ? AND c.status = ?%s
		ORDER BY bm25(content_fts)
		LIMIT %d`, contentColumns, formatCond, titleSearchLimit)
	return db.queryContent(ctx, "search_title_fts", query, append([]interface{}{match}, filterArgs...)...)
}

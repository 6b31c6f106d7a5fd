// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package database

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/metrics"
	"github.com/fablehouse/fablehouse/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{
		Path:        ":memory:",
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type seedItem struct {
	title        string
	description  string
	format       models.Format
	minimumAge   int
	status       string
	viewCount    int64
	decisionDate time.Time
	genres       []string
}

func seedContent(t *testing.T, db *DB, items []seedItem) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		status := item.status
		if status == "" {
			status = models.StatusApproved
		}
		var decision interface{}
		if !item.decisionDate.IsZero() {
			decision = item.decisionDate.UTC().Format(time.RFC3339)
		}
		res, err := db.conn.Exec(`
			INSERT INTO content (title, description, format, minimum_age, status, view_count, decision_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.title, item.description, string(item.format), item.minimumAge,
			status, item.viewCount, decision)
		if err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			t.Fatalf("LastInsertId failed: %v", err)
		}
		ids = append(ids, id)
		for _, genre := range item.genres {
			gid := seedGenre(t, db, genre)
			if _, err := db.conn.Exec(
				`INSERT INTO content_genres (content_id, genre_id) VALUES (?, ?)`,
				id, gid); err != nil {
				t.Fatalf("genre link failed: %v", err)
			}
		}
	}
	return ids
}

func seedGenre(t *testing.T, db *DB, name string) int64 {
	t.Helper()
	if _, err := db.conn.Exec(
		`INSERT OR IGNORE INTO genres (name) VALUES (?)`, name); err != nil {
		t.Fatalf("genre insert failed: %v", err)
	}
	var id int64
	if err := db.conn.QueryRow(
		`SELECT id FROM genres WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("genre select failed: %v", err)
	}
	return id
}

func titles(items []models.ContentItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestCleanTitleQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Is Harry Potter available?", "harry potter"},
		{"do you have Peppa Pig", "peppa pig"},
		{"where can i find The Gruffalo", "gruffalo"},
		{"show me Matilda", "matilda"},
		{"is it available", "is it available"},
		{"Charlotte's Web", "charlottes web"},
	}
	for _, tt := range tests {
		if got := CleanTitleQuery(tt.in); got != tt.want {
			t.Errorf("CleanTitleQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`harry "potter"`, "harry potter"},
		{"cat AND dog", "cat AND dog"},
		{"fish(little)fish", "fish little fish"},
		{`"^$*:()`, ""},
	}
	for _, tt := range tests {
		if got := escapeFTSQuery(tt.in); got != tt.want {
			t.Errorf("escapeFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchTitleExactMatch(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Matilda", format: models.FormatBook},
		{title: "Matilda the Musical", format: models.FormatVideo},
	})

	items, err := db.SearchTitle(context.Background(), "Is Matilda available?", "")
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Matilda" {
		t.Fatalf("expected exact match [Matilda], got %v", titles(items))
	}
}

func TestSearchTitleSubstringFallback(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "The Gruffalo's Child", format: models.FormatBook},
	})

	items, err := db.SearchTitle(context.Background(), "gruffalo's child", "")
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected substring match, got %v", titles(items))
	}
}

func TestSearchTitleFTSWordMatch(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Big Fish Little Fish", format: models.FormatBook},
		{title: "Little Red Hen", format: models.FormatBook},
	})

	// Words out of order defeat exact and substring matching.
	items, err := db.SearchTitle(context.Background(), "little fish big", "")
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Big Fish Little Fish" {
		t.Fatalf("expected word match [Big Fish Little Fish], got %v", titles(items))
	}
}

func TestSearchTitleFormatFilter(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Frozen", format: models.FormatBook},
		{title: "Frozen", format: models.FormatVideo},
	})

	items, err := db.SearchTitle(context.Background(), "frozen", models.FormatVideo)
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(items) != 1 || items[0].Format != models.FormatVideo {
		t.Fatalf("expected one video, got %v", items)
	}
}

func TestSearchTitleSkipsUnapproved(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Coraline", format: models.FormatBook, status: "pending"},
	})

	items, err := db.SearchTitle(context.Background(), "coraline", "")
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no results for pending content, got %v", titles(items))
	}
}

func TestSearchCharacterTitleOnly(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Peppa Pig Goes Swimming", format: models.FormatVideo},
		{title: "Peppa Pig at the Zoo", format: models.FormatVideo},
		{title: "Peppa Pig's Holiday", format: models.FormatBook},
		{title: "Farmyard Tales", description: "Peppa Pig makes a cameo", format: models.FormatBook},
	})

	items, err := db.SearchCharacter(context.Background(), "peppa pig")
	if err != nil {
		t.Fatalf("SearchCharacter failed: %v", err)
	}
	// Three title hits means descriptions are never searched.
	if len(items) != 3 {
		t.Fatalf("expected 3 title hits, got %v", titles(items))
	}
}

func TestSearchCharacterWidensToDescriptions(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Superhero Squad", format: models.FormatVideo},
		{title: "City Defenders", description: "A superhero protects the town", format: models.FormatBook},
	})

	items, err := db.SearchCharacter(context.Background(), "superhero")
	if err != nil {
		t.Fatalf("SearchCharacter failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected title+description merge, got %v", titles(items))
	}
}

func TestSearchCharacterDeduplicates(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Elsa's Adventure", description: "Elsa explores the mountain", format: models.FormatVideo},
	})

	items, err := db.SearchCharacter(context.Background(), "elsa")
	if err != nil {
		t.Fatalf("SearchCharacter failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 de-duplicated result, got %v", titles(items))
	}
}

func TestFindByGenre(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Spooky Tales", format: models.FormatBook, viewCount: 5, genres: []string{"horror"}},
		{title: "Ghost Stories", format: models.FormatBook, viewCount: 10, genres: []string{"horror"}},
		{title: "Space Race", format: models.FormatBook, genres: []string{"science"}},
		{title: "Haunted House", format: models.FormatVideo, genres: []string{"horror"}},
	})

	items, err := db.FindByGenre(context.Background(), "horror", models.FormatBook)
	if err != nil {
		t.Fatalf("FindByGenre failed: %v", err)
	}
	want := []string{"Ghost Stories", "Spooky Tales"}
	got := titles(items)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("FindByGenre = %v, want %v", got, want)
	}
	if items[0].Genres[0] != "horror" {
		t.Errorf("expected genre list populated, got %v", items[0].Genres)
	}
}

func TestListGenres(t *testing.T) {
	db := newTestDB(t)
	seedGenre(t, db, "horror")
	seedGenre(t, db, "adventure")

	genres, err := db.ListGenres(context.Background())
	if err != nil {
		t.Fatalf("ListGenres failed: %v", err)
	}
	if len(genres) != 2 || genres[0] != "adventure" || genres[1] != "horror" {
		t.Fatalf("ListGenres = %v", genres)
	}
}

func TestBlockedGenres(t *testing.T) {
	db := newTestDB(t)
	gid := seedGenre(t, db, "horror")
	if _, err := db.conn.Exec(
		`INSERT INTO blocked_genres (child_id, genre_id) VALUES (?, ?)`,
		"child-1", gid); err != nil {
		t.Fatalf("seed blocked genre failed: %v", err)
	}

	blocked, err := db.BlockedGenres(context.Background(), "child-1")
	if err != nil {
		t.Fatalf("BlockedGenres failed: %v", err)
	}
	if len(blocked) != 1 || blocked[0] != "horror" {
		t.Fatalf("BlockedGenres = %v", blocked)
	}

	none, err := db.BlockedGenres(context.Background(), "child-2")
	if err != nil {
		t.Fatalf("BlockedGenres failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no blocked genres, got %v", none)
	}
}

func TestPopularRequiresMinimumResults(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Only One", format: models.FormatBook, viewCount: 100},
	})

	items, err := db.Popular(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty popular list below threshold, got %v", titles(items))
	}
}

func TestPopularOrdersByViews(t *testing.T) {
	db := newTestDB(t)
	var seeds []seedItem
	for i := 0; i < 6; i++ {
		seeds = append(seeds, seedItem{
			title:     string(rune('A' + i)),
			format:    models.FormatBook,
			viewCount: int64(i * 10),
		})
	}
	seedContent(t, db, seeds)

	items, err := db.Popular(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	if len(items) != 6 || items[0].ViewCount != 50 {
		t.Fatalf("expected view-count ordering, got %v", titles(items))
	}
}

func TestPopularFiltersAge(t *testing.T) {
	db := newTestDB(t)
	var seeds []seedItem
	for i := 0; i < 5; i++ {
		seeds = append(seeds, seedItem{
			title: string(rune('A' + i)), format: models.FormatBook, viewCount: 1,
		})
	}
	seeds = append(seeds, seedItem{
		title: "Teens Only", format: models.FormatBook, minimumAge: 13, viewCount: 99,
	})
	seedContent(t, db, seeds)

	items, err := db.Popular(context.Background(), 8, "")
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	for _, item := range items {
		if item.MinimumAge > 8 {
			t.Fatalf("age filter leaked %q", item.Title)
		}
	}
}

func TestTrendingWindowAndFallback(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	seedContent(t, db, []seedItem{
		{title: "Fresh Pick", format: models.FormatBook, viewCount: 1, decisionDate: now.Add(-24 * time.Hour)},
		{title: "Old Favourite", format: models.FormatBook, viewCount: 100, decisionDate: now.Add(-30 * 24 * time.Hour)},
	})

	items, err := db.Trending(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Trending failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Fresh Pick" {
		t.Fatalf("expected recent window only, got %v", titles(items))
	}

	// Push everything outside the window to exercise the fallback.
	if _, err := db.conn.Exec(`UPDATE content SET decision_date = ?`,
		now.Add(-60*24*time.Hour).UTC().Format(time.RFC3339)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	items, err = db.Trending(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Trending fallback failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected fallback to most recent, got %v", titles(items))
	}
}

func TestPersonalizedUsesInteractionGenres(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Dino Dig", format: models.FormatBook, viewCount: 1, genres: []string{"dinosaurs"}},
		{title: "Space Walk", format: models.FormatBook, viewCount: 99, genres: []string{"space"}},
	})
	gid := seedGenre(t, db, "dinosaurs")
	if _, err := db.conn.Exec(
		`INSERT INTO interactions (child_id, genre_id, score) VALUES (?, ?, ?)`,
		"child-1", gid, 5.0); err != nil {
		t.Fatalf("seed interaction failed: %v", err)
	}

	items, err := db.Personalized(context.Background(), "child-1", 10, "")
	if err != nil {
		t.Fatalf("Personalized failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Dino Dig" {
		t.Fatalf("expected interaction-genre picks, got %v", titles(items))
	}
}

func TestPersonalizedFallsBackToPopular(t *testing.T) {
	db := newTestDB(t)
	var seeds []seedItem
	for i := 0; i < 5; i++ {
		seeds = append(seeds, seedItem{
			title: string(rune('A' + i)), format: models.FormatBook, viewCount: int64(i),
		})
	}
	seedContent(t, db, seeds)

	items, err := db.Personalized(context.Background(), "child-without-history", 10, "")
	if err != nil {
		t.Fatalf("Personalized failed: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected popular fallback, got %v", titles(items))
	}
}

func TestChildAge(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.conn.Exec(
		`INSERT INTO children (id, age) VALUES (?, ?)`, "child-1", 7); err != nil {
		t.Fatalf("seed child failed: %v", err)
	}

	age, found, err := db.ChildAge(context.Background(), "child-1")
	if err != nil {
		t.Fatalf("ChildAge failed: %v", err)
	}
	if !found || age != 7 {
		t.Fatalf("ChildAge = (%d, %v), want (7, true)", age, found)
	}

	_, found, err = db.ChildAge(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ChildAge failed: %v", err)
	}
	if found {
		t.Fatal("expected unregistered child to be not found")
	}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for i, msg := range []string{"hi", "hello there", "show me books", "here you go"} {
		turn := models.ChatTurn{ChildID: "child-1", Message: msg, IsBot: i%2 == 1}
		if err := db.AppendChatTurn(ctx, turn); err != nil {
			t.Fatalf("AppendChatTurn failed: %v", err)
		}
	}

	turns, err := db.RecentChatTurns(ctx, "child-1", 3)
	if err != nil {
		t.Fatalf("RecentChatTurns failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	// Chronological order, most recent three.
	if turns[0].Message != "hello there" || turns[2].Message != "here you go" {
		t.Fatalf("unexpected order: %v", turns)
	}
	if !turns[0].IsBot || turns[1].IsBot {
		t.Fatal("is_bot flags not preserved")
	}
}

func TestOptimizeSearchIndex(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Anything", format: models.FormatBook},
	})
	if err := db.OptimizeSearchIndex(context.Background()); err != nil {
		t.Fatalf("OptimizeSearchIndex failed: %v", err)
	}
}

func TestQueriesRecordMetrics(t *testing.T) {
	db := newTestDB(t)
	seedContent(t, db, []seedItem{
		{title: "Counted Tales", format: models.FormatBook},
	})

	if _, err := db.SearchTitle(context.Background(), "Counted Tales", ""); err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if n := testutil.CollectAndCount(metrics.DBQueryDuration); n == 0 {
		t.Error("expected query durations to be observed")
	}
}

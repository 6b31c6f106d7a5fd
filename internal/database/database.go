// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package database implements the content catalogue on embedded SQLite,
// including the FTS5 full-text index behind title search, the
// recommendation queries, child profiles, and chat history.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/metrics"
	"github.com/fablehouse/fablehouse/internal/models"
)

// DB wraps the SQLite connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite connections are not safe for unrestricted
	// parallel writes; a single connection serializes access and WAL
	// keeps readers fast.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, cfg: cfg}

	if err := db.applyPragmas(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("database ready")
	return db, nil
}

// applyPragmas configures journaling, busy handling, and enforcement of
// foreign keys.
func (db *DB) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", db.cfg.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.conn.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// scanContentRows maps a content query's rows into ContentItems. Queries
// feeding it must select the columns in contentColumns order, with a
// trailing comma-separated genre list.
const contentColumns = `c.id, c.title, c.description, c.format, c.minimum_age,
	c.status, c.cover_image, c.content_url, c.view_count,
	COALESCE((SELECT GROUP_CONCAT(g.name, ',')
		FROM content_genres cg JOIN genres g ON g.id = cg.genre_id
		WHERE cg.content_id = c.id), '')`

func scanContentRows(rows *sql.Rows) ([]models.ContentItem, error) {
	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		var genres string
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Format,
			&item.MinimumAge, &item.Status, &item.CoverImage,
			&item.ContentURL, &item.ViewCount, &genres,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		if genres != "" {
			item.Genres = strings.Split(genres, ",")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// queryContent runs a content query under the named operation and maps
// the rows. The operation labels the query's duration and error metrics.
func (db *DB) queryContent(ctx context.Context, op, query string, args ...interface{}) ([]models.ContentItem, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery(op, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContentRows(rows)
}

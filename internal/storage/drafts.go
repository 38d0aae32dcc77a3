// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/inkwell-tui/inkwell/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// TYPES
// =============================================================================

// Draft represents a persisted document.
type Draft struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftMeta contains metadata for listing drafts.
type DraftMeta struct {
	ID        string
	Title     string
	UpdatedAt time.Time
	// Preview is the first line of the content, truncated.
	Preview string
}

// Generation records one applied AI generation.
type Generation struct {
	ID        int64
	DraftID   string
	Kind      string
	Input     string
	Output    string
	CreatedAt time.Time
}

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore handles draft persistence backed by SQLite.
type DraftStore struct {
	db *sql.DB

	// MaxGenerations bounds the kept history per draft (0 = unlimited).
	MaxGenerations int
}

// Open opens (creating if needed) the draft database at dir/drafts.db.
func Open(dir string) (*DraftStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "drafts.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &DraftStore{db: db, MaxGenerations: 200}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

func (s *DraftStore) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS generations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	draft_id   TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	input      TEXT NOT NULL,
	output     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generations_draft ON generations(draft_id, created_at);
CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// DRAFT OPERATIONS
// =============================================================================

// Save persists a draft, creating it on first save, and returns its ID.
func (s *DraftStore) Save(ctx context.Context, d *Draft) (string, error) {
	if d.ID == "" {
		d.ID = generateDraftID()
	}
	if d.Title == "" {
		d.Title = deriveTitle(d.Content)
	}
	now := time.Now()
	d.UpdatedAt = now
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO drafts (id, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	content = excluded.content,
	updated_at = excluded.updated_at`,
		d.ID, d.Title, d.Content, d.CreatedAt.UnixMilli(), d.UpdatedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("%w: save: %v", ErrDatabaseError, err)
	}
	return d.ID, nil
}

// Load retrieves a draft by ID.
func (s *DraftStore) Load(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM drafts WHERE id = ?`, id)

	var d Draft
	var created, updated int64
	err := row.Scan(&d.ID, &d.Title, &d.Content, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrDatabaseError, err)
	}
	d.CreatedAt = time.UnixMilli(created)
	d.UpdatedAt = time.UnixMilli(updated)
	return &d, nil
}

// List returns draft metadata, most recently updated first.
func (s *DraftStore) List(ctx context.Context) ([]DraftMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var metas []DraftMeta
	for rows.Next() {
		var m DraftMeta
		var content string
		var updated int64
		if err := rows.Scan(&m.ID, &m.Title, &content, &updated); err != nil {
			return nil, fmt.Errorf("%w: list scan: %v", ErrDatabaseError, err)
		}
		m.UpdatedAt = time.UnixMilli(updated)
		m.Preview = deriveTitle(content)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a draft and its generation history.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// =============================================================================
// GENERATION HISTORY
// =============================================================================

// RecordGeneration appends an applied generation to a draft's history,
// pruning the oldest entries past MaxGenerations.
func (s *DraftStore) RecordGeneration(ctx context.Context, draftID, kind, input, output string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO generations (draft_id, kind, input, output, created_at)
VALUES (?, ?, ?, ?, ?)`,
		draftID, kind, input, output, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: record generation: %v", ErrDatabaseError, err)
	}

	if s.MaxGenerations > 0 {
		_, err = s.db.ExecContext(ctx, `
DELETE FROM generations WHERE draft_id = ? AND id NOT IN (
	SELECT id FROM generations WHERE draft_id = ? ORDER BY id DESC LIMIT ?
)`, draftID, draftID, s.MaxGenerations)
		if err != nil {
			return fmt.Errorf("%w: prune generations: %v", ErrDatabaseError, err)
		}
	}
	return nil
}

// ListGenerations returns a draft's generation history, newest first.
func (s *DraftStore) ListGenerations(ctx context.Context, draftID string) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, draft_id, kind, input, output, created_at
FROM generations WHERE draft_id = ? ORDER BY id DESC`, draftID)
	if err != nil {
		return nil, fmt.Errorf("%w: list generations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		var created int64
		if err := rows.Scan(&g.ID, &g.DraftID, &g.Kind, &g.Input, &g.Output, &created); err != nil {
			return nil, fmt.Errorf("%w: generation scan: %v", ErrDatabaseError, err)
		}
		g.CreatedAt = time.UnixMilli(created)
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

// generateDraftID returns a random draft identifier like "draft_a1b2c3d4".
func generateDraftID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "draft_" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return "draft_" + hex.EncodeToString(b)
}

// deriveTitle picks the first non-blank line, truncated to 60 runes.
func deriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return util.TruncateRunesNoEllipsis(line, 60)
	}
	return "Untitled"
}

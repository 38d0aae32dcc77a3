// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *DraftStore {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Draft{Content: "My first note\n\nbody text"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(id, "draft_") {
		t.Errorf("id = %q, want draft_ prefix", id)
	}

	d, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Content != "My first note\n\nbody text" {
		t.Errorf("content = %q", d.Content)
	}
	if d.Title != "My first note" {
		t.Errorf("derived title = %q", d.Title)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestSaveUpdatesExistingDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := &Draft{Content: "v1"}
	id, err := s.Save(ctx, d)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	d.Content = "v2"
	d.Title = ""
	if _, err := s.Save(ctx, d); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Content != "v2" {
		t.Errorf("content = %q, want v2", loaded.Content)
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("List returned %d drafts, want 1", len(metas))
	}
}

func TestLoadMissingDraft(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "draft_nope")
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}

func TestDeleteDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Draft{Content: "doomed"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, id); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("Load after delete = %v, want ErrDraftNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("second Delete = %v, want ErrDraftNotFound", err)
	}
}

func TestListOrdersByUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := &Draft{Content: "first"}
	if _, err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	b := &Draft{Content: "second"}
	if _, err := s.Save(ctx, b); err != nil {
		t.Fatal(err)
	}

	// Touch the first draft so it becomes most recent.
	time.Sleep(5 * time.Millisecond)
	a.Content = "first touched"
	if _, err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("List returned %d drafts", len(metas))
	}
	if metas[0].ID != a.ID {
		t.Errorf("most recent = %s, want %s", metas[0].ID, a.ID)
	}
	if metas[0].Preview != "first touched" {
		t.Errorf("preview = %q", metas[0].Preview)
	}
}

func TestGenerationHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Draft{Content: "doc"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.RecordGeneration(ctx, id, "polish", "in one", "out one"); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}
	if err := s.RecordGeneration(ctx, id, "summary", "in two", "out two"); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}

	gens, err := s.ListGenerations(ctx, id)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(gens) != 2 {
		t.Fatalf("got %d generations, want 2", len(gens))
	}
	if gens[0].Kind != "summary" || gens[1].Kind != "polish" {
		t.Errorf("order = [%s, %s], want newest first", gens[0].Kind, gens[1].Kind)
	}
}

func TestGenerationHistoryPruned(t *testing.T) {
	s := openTestStore(t)
	s.MaxGenerations = 3
	ctx := context.Background()

	id, err := s.Save(ctx, &Draft{Content: "doc"})
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []string{"a", "b", "c", "d", "e"} {
		if err := s.RecordGeneration(ctx, id, kind, "in", "out"); err != nil {
			t.Fatal(err)
		}
	}

	gens, err := s.ListGenerations(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 3 {
		t.Fatalf("got %d generations, want 3 after pruning", len(gens))
	}
	if gens[0].Kind != "e" || gens[2].Kind != "c" {
		t.Errorf("kept kinds = %s..%s, want e..c", gens[0].Kind, gens[2].Kind)
	}
}

func TestGenerationsDeletedWithDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Draft{Content: "doc"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordGeneration(ctx, id, "polish", "in", "out"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}

	gens, err := s.ListGenerations(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 0 {
		t.Errorf("generations survived draft deletion: %d", len(gens))
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"simple", "Hello world", "Hello world"},
		{"skips blank lines", "\n\n  \nReal title\nbody", "Real title"},
		{"empty", "", "Untitled"},
		{"whitespace only", "  \n\t\n", "Untitled"},
		{"truncates long lines", strings.Repeat("x", 100), strings.Repeat("x", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveTitle(tt.content); got != tt.want {
				t.Errorf("deriveTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

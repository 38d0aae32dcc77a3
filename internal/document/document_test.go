// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document implements the plain-text document engine for inkwell.
package document

import (
	"testing"
)

// =============================================================================
// BASIC EDITING TESTS
// =============================================================================

func TestDocumentReplaceRange(t *testing.T) {
	doc := NewWithText("hello world")

	doc.ReplaceRange(0, 5, "goodbye")
	if got := doc.Text(); got != "goodbye world" {
		t.Errorf("Expected 'goodbye world', got %q", got)
	}
	if doc.Len() != 13 {
		t.Errorf("Expected length 13, got %d", doc.Len())
	}
}

func TestDocumentReplaceRangeClamped(t *testing.T) {
	doc := NewWithText("abc")

	// Out-of-bounds offsets are clamped, inverted offsets are normalized.
	doc.ReplaceRange(10, -4, "X")
	if got := doc.Text(); got != "X" {
		t.Errorf("Expected 'X', got %q", got)
	}
}

func TestDocumentInsertAtCursor(t *testing.T) {
	doc := NewWithText("ab")
	doc.SetCursor(1)

	doc.InsertAtCursor("XY")
	if got := doc.Text(); got != "aXYb" {
		t.Errorf("Expected 'aXYb', got %q", got)
	}
	// Cursor lands after the inserted text.
	if doc.Cursor() != 3 {
		t.Errorf("Expected cursor 3, got %d", doc.Cursor())
	}
}

func TestDocumentDeleteBackward(t *testing.T) {
	doc := NewWithText("hello")
	doc.DeleteBackward(2)
	if got := doc.Text(); got != "hel" {
		t.Errorf("Expected 'hel', got %q", got)
	}
	if doc.Cursor() != 3 {
		t.Errorf("Expected cursor 3, got %d", doc.Cursor())
	}

	// Backspace at start of document is a no-op.
	doc.SetCursor(0)
	doc.DeleteBackward(1)
	if got := doc.Text(); got != "hel" {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestDocumentUnicode(t *testing.T) {
	doc := NewWithText("日本語テキスト")
	if doc.Len() != 7 {
		t.Errorf("Expected rune length 7, got %d", doc.Len())
	}

	doc.ReplaceRange(0, 3, "Go")
	if got := doc.Text(); got != "Goテキスト" {
		t.Errorf("Expected 'Goテキスト', got %q", got)
	}
}

// =============================================================================
// SELECTION TESTS
// =============================================================================

func TestDocumentSelection(t *testing.T) {
	doc := NewWithText("hello world")

	if _, ok := doc.SelectionRange(); ok {
		t.Error("Fresh document should have no selection")
	}

	doc.Select(6, 11)
	r, ok := doc.SelectionRange()
	if !ok || r.From != 6 || r.To != 11 {
		t.Errorf("Expected selection {6 11}, got %+v ok=%v", r, ok)
	}
	if got := doc.SelectedText(); got != "world" {
		t.Errorf("Expected 'world', got %q", got)
	}

	// Selection is normalized when the cursor is before the mark.
	doc.Select(11, 6)
	r, _ = doc.SelectionRange()
	if r.From != 6 || r.To != 11 {
		t.Errorf("Expected normalized selection {6 11}, got %+v", r)
	}

	doc.ClearMark()
	if _, ok := doc.SelectionRange(); ok {
		t.Error("Expected no selection after ClearMark")
	}
}

func TestDocumentReplaceSelection(t *testing.T) {
	doc := NewWithText("hello world")
	doc.Select(0, 5)

	doc.ReplaceSelection("hi")
	if got := doc.Text(); got != "hi world" {
		t.Errorf("Expected 'hi world', got %q", got)
	}
	if _, ok := doc.SelectionRange(); ok {
		t.Error("Selection should collapse after replace")
	}
	if doc.Cursor() != 2 {
		t.Errorf("Expected cursor 2, got %d", doc.Cursor())
	}
}

func TestDocumentReplaceSelectionNoSelection(t *testing.T) {
	doc := NewWithText("ab")
	doc.SetCursor(1)

	// Falls back to insert at cursor.
	doc.ReplaceSelection("X")
	if got := doc.Text(); got != "aXb" {
		t.Errorf("Expected 'aXb', got %q", got)
	}
}

// =============================================================================
// TRANSACTION LISTENER TESTS
// =============================================================================

func TestDocumentTransactionOrder(t *testing.T) {
	doc := NewWithText("0123456789")

	var trs []Transaction
	doc.OnTransaction(func(tr Transaction) {
		trs = append(trs, tr)
	})

	doc.ReplaceRange(0, 0, "ab") // doc change
	doc.SetCursor(3)             // selection only
	doc.DeleteRange(0, 1)        // doc change

	if len(trs) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(trs))
	}
	if !trs[0].DocChanged || trs[1].DocChanged || !trs[2].DocChanged {
		t.Errorf("DocChanged flags wrong: %v %v %v",
			trs[0].DocChanged, trs[1].DocChanged, trs[2].DocChanged)
	}
	if !trs[1].Mapping.IsIdentity() {
		t.Error("Selection-only transaction should carry identity mapping")
	}
}

func TestDocumentAnchorTrackingThroughEdits(t *testing.T) {
	doc := NewWithText("The quick brown fox")

	// Track an anchor range over "quick" [4, 9).
	anchor := Range{From: 4, To: 9}
	doc.OnTransaction(func(tr Transaction) {
		if tr.DocChanged {
			anchor = tr.Mapping.MapRange(anchor)
		}
	})

	// Insert before the anchor: both ends shift.
	doc.ReplaceRange(0, 0, ">> ")
	if anchor.From != 7 || anchor.To != 12 {
		t.Fatalf("After leading insert anchor = %+v, want {7 12}", anchor)
	}
	if got := doc.TextRange(anchor.From, anchor.To); got != "quick" {
		t.Errorf("Anchor content = %q, want 'quick'", got)
	}

	// Edit after the anchor: anchor unchanged.
	doc.ReplaceRange(18, 22, "cat")
	if anchor.From != 7 || anchor.To != 12 {
		t.Errorf("After trailing edit anchor = %+v, want {7 12}", anchor)
	}

	// Delete a range overlapping the anchor start.
	doc.DeleteRange(5, 9)
	if got := doc.TextRange(anchor.From, anchor.To); got == "" {
		t.Errorf("Anchor should still cover content, got empty range %+v", anchor)
	}
}

func TestDocumentCursorRemapOnEdit(t *testing.T) {
	doc := NewWithText("hello")
	doc.SetCursor(5)

	// Deleting before the cursor pulls it back.
	doc.DeleteRange(0, 2)
	if doc.Cursor() != 3 {
		t.Errorf("Expected cursor 3 after leading delete, got %d", doc.Cursor())
	}
}

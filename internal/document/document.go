// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document implements the plain-text document engine for inkwell.
package document

import (
	"github.com/inkwell-tui/inkwell/internal/util"
)

// =============================================================================
// ENGINE CAPABILITY SURFACE
// =============================================================================

// Engine is the document capability surface consumed by code that reads
// from and writes to the document without owning it (the AI assist
// orchestrator in particular). Document implements Engine; taking the
// interface keeps consumers free of any ambient editor reference.
type Engine interface {
	// Len returns the document length in runes.
	Len() int
	// Text returns the full document content.
	Text() string
	// SelectionRange returns the current selection, if any.
	SelectionRange() (Range, bool)
	// SelectedText returns the content of the current selection ("" if none).
	SelectedText() string
	// ReplaceRange replaces [from, to) with text. Out-of-bounds offsets are
	// clamped to the document.
	ReplaceRange(from, to int, text string)
	// ReplaceSelection replaces the current selection with text; with no
	// selection it inserts at the cursor.
	ReplaceSelection(text string)
	// InsertAtCursor inserts text at the cursor position.
	InsertAtCursor(text string)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Transaction describes one atomic change to the document. Selection-only
// transactions carry an identity Mapping and DocChanged=false.
type Transaction struct {
	// Mapping translates pre-transaction offsets to post-transaction offsets.
	Mapping Mapping
	// DocChanged is true when document content was mutated.
	DocChanged bool
}

// Listener observes transactions in dispatch order.
type Listener func(Transaction)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is a rune-addressed text buffer with a cursor and a mark-based
// selection (the selection spans between mark and cursor, emacs style).
//
// Document is not safe for concurrent use; all access must happen on the
// UI event loop, which also guarantees listeners observe transactions in
// the order the edits occurred.
type Document struct {
	runes  []rune
	cursor int
	mark   int // -1 when no mark is set

	listeners []Listener
}

// New creates an empty document.
func New() *Document {
	return &Document{mark: -1}
}

// NewWithText creates a document with initial content, cursor at the end.
func NewWithText(text string) *Document {
	runes := []rune(text)
	return &Document{
		runes:  runes,
		cursor: len(runes),
		mark:   -1,
	}
}

// OnTransaction registers a listener invoked for every transaction,
// including selection-only ones. Listeners run synchronously in
// registration order.
func (d *Document) OnTransaction(fn Listener) {
	d.listeners = append(d.listeners, fn)
}

func (d *Document) notify(tr Transaction) {
	for _, fn := range d.listeners {
		fn(tr)
	}
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Len returns the document length in runes.
func (d *Document) Len() int {
	return len(d.runes)
}

// Text returns the full document content.
func (d *Document) Text() string {
	return string(d.runes)
}

// TextRange returns the content of [from, to), clamped to the document.
func (d *Document) TextRange(from, to int) string {
	from = util.Clamp(from, 0, len(d.runes))
	to = util.Clamp(to, 0, len(d.runes))
	if from >= to {
		return ""
	}
	return string(d.runes[from:to])
}

// Cursor returns the cursor position.
func (d *Document) Cursor() int {
	return d.cursor
}

// HasMark reports whether a selection mark is set.
func (d *Document) HasMark() bool {
	return d.mark >= 0
}

// SelectionRange returns the normalized mark..cursor range. The second
// return is false when no mark is set or the selection is empty.
func (d *Document) SelectionRange() (Range, bool) {
	if d.mark < 0 || d.mark == d.cursor {
		return Range{}, false
	}
	r := Range{From: d.mark, To: d.cursor}
	if r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	return r, true
}

// SelectedText returns the content of the current selection, or "".
func (d *Document) SelectedText() string {
	r, ok := d.SelectionRange()
	if !ok {
		return ""
	}
	return d.TextRange(r.From, r.To)
}

// =============================================================================
// SELECTION OPERATIONS
// =============================================================================

// SetCursor moves the cursor, clamped into the document. Emits a
// selection-only transaction.
func (d *Document) SetCursor(pos int) {
	d.cursor = util.Clamp(pos, 0, len(d.runes))
	d.notify(Transaction{})
}

// MoveCursor moves the cursor by delta runes.
func (d *Document) MoveCursor(delta int) {
	d.SetCursor(d.cursor + delta)
}

// SetMark places the selection mark at the cursor.
func (d *Document) SetMark() {
	d.mark = d.cursor
	d.notify(Transaction{})
}

// ClearMark removes the selection mark.
func (d *Document) ClearMark() {
	d.mark = -1
	d.notify(Transaction{})
}

// Select sets the selection to [from, to) with the cursor at to.
func (d *Document) Select(from, to int) {
	d.mark = util.Clamp(from, 0, len(d.runes))
	d.cursor = util.Clamp(to, 0, len(d.runes))
	d.notify(Transaction{})
}

// =============================================================================
// MUTATING OPERATIONS
// =============================================================================

// ReplaceRange replaces [from, to) with text, emitting a transaction whose
// Mapping translates pre-edit offsets. Cursor and mark are remapped through
// the same mapping; the cursor lands after the inserted text when it was
// inside the replaced region.
func (d *Document) ReplaceRange(from, to int, text string) {
	from = util.Clamp(from, 0, len(d.runes))
	to = util.Clamp(to, 0, len(d.runes))
	if from > to {
		from, to = to, from
	}

	ins := []rune(text)
	sp := Span{Start: from, OldLen: to - from, NewLen: len(ins)}

	next := make([]rune, 0, len(d.runes)-sp.OldLen+sp.NewLen)
	next = append(next, d.runes[:from]...)
	next = append(next, ins...)
	next = append(next, d.runes[to:]...)
	d.runes = next

	mapping := NewMapping(sp)
	d.cursor = mapping.Map(d.cursor)
	if d.mark >= 0 {
		d.mark = mapping.Map(d.mark)
	}

	d.notify(Transaction{Mapping: mapping, DocChanged: true})
}

// ReplaceSelection replaces the current selection with text, collapsing the
// selection afterwards. With no selection, inserts at the cursor.
func (d *Document) ReplaceSelection(text string) {
	r, ok := d.SelectionRange()
	if !ok {
		d.InsertAtCursor(text)
		return
	}
	d.mark = -1
	// The replace mapping lands the cursor after the inserted text.
	d.ReplaceRange(r.From, r.To, text)
}

// InsertAtCursor inserts text at the cursor position. The replace mapping
// lands the cursor after the insertion.
func (d *Document) InsertAtCursor(text string) {
	d.ReplaceRange(d.cursor, d.cursor, text)
}

// DeleteRange removes [from, to).
func (d *Document) DeleteRange(from, to int) {
	d.ReplaceRange(from, to, "")
}

// DeleteBackward removes n runes before the cursor (backspace).
func (d *Document) DeleteBackward(n int) {
	if n <= 0 || d.cursor == 0 {
		return
	}
	from := util.Clamp(d.cursor-n, 0, len(d.runes))
	d.ReplaceRange(from, d.cursor, "")
}

// DeleteForward removes n runes after the cursor.
func (d *Document) DeleteForward(n int) {
	if n <= 0 || d.cursor >= len(d.runes) {
		return
	}
	to := util.Clamp(d.cursor+n, 0, len(d.runes))
	d.ReplaceRange(d.cursor, to, "")
}

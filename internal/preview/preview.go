// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"sync"

	"github.com/inkwell-tui/inkwell/internal/document"
)

// ============================================================================
// Kind
// ============================================================================

// Kind identifies the generation mode a preview belongs to.
type Kind int

const (
	// KindNone is the zero value used while no preview is active.
	KindNone Kind = iota
	// KindPolish rewrites the text without changing its meaning.
	KindPolish
	// KindExpand elaborates on the text.
	KindExpand
	// KindSummary condenses the text.
	KindSummary
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPolish:
		return "polish"
	case KindExpand:
		return "expand"
	case KindSummary:
		return "summary"
	default:
		return "none"
	}
}

// ============================================================================
// State
// ============================================================================

// State is the single overlay slot. Start and End anchor the preview to a
// document range; both are -1 when the preview is unanchored (inserted at
// the cursor rather than replacing a selection). Visible distinguishes the
// Empty state from an Active one.
type State struct {
	Start   int
	End     int
	Text    string
	Loading bool
	Kind    Kind
	Visible bool
}

// EmptyState returns the Empty overlay state.
func EmptyState() State {
	return State{Start: -1, End: -1}
}

// Empty reports whether the overlay is in the Empty state.
func (s State) Empty() bool {
	return !s.Visible
}

// Anchored reports whether the state carries a concrete document range.
func (s State) Anchored() bool {
	return s.Start >= 0 && s.End >= 0
}

// Settled reports whether an active preview has finished streaming.
func (s State) Settled() bool {
	return s.Visible && !s.Loading
}

// ============================================================================
// Commands
// ============================================================================

// Command is a state transition trigger. Exactly three commands exist.
type Command interface {
	apply(State) State
}

// Set replaces the whole state and makes the overlay visible.
type Set struct {
	From    int
	To      int
	Text    string
	Loading bool
	Kind    Kind
}

func (c Set) apply(State) State {
	return State{
		Start:   c.From,
		End:     c.To,
		Text:    c.Text,
		Loading: c.Loading,
		Kind:    c.Kind,
		Visible: true,
	}
}

// Update merges the provided fields into an active state. Nil fields are
// left untouched. An Update against the Empty state is ignored, so a stale
// streaming tick can never resurrect a cleared preview.
type Update struct {
	From    *int
	To      *int
	Text    *string
	Loading *bool
	Kind    *Kind
}

func (c Update) apply(s State) State {
	if s.Empty() {
		return s
	}
	if c.From != nil {
		s.Start = *c.From
	}
	if c.To != nil {
		s.End = *c.To
	}
	if c.Text != nil {
		s.Text = *c.Text
	}
	if c.Loading != nil {
		s.Loading = *c.Loading
	}
	if c.Kind != nil {
		s.Kind = *c.Kind
	}
	return s
}

// TextUpdate builds an Update carrying new streamed text and the current
// loading flag.
func TextUpdate(text string, loading bool) Update {
	return Update{Text: &text, Loading: &loading}
}

// LoadingUpdate builds an Update that only flips the loading flag.
func LoadingUpdate(loading bool) Update {
	return Update{Loading: &loading}
}

// Clear resets the overlay to Empty. Clearing an already-Empty overlay is
// a no-op.
type Clear struct{}

func (Clear) apply(State) State {
	return EmptyState()
}

// Apply returns the state produced by running cmd against s. It is a pure
// function; callers that need shared mutable state use a Store.
func (s State) Apply(cmd Command) State {
	return cmd.apply(s)
}

// ============================================================================
// Reposition
// ============================================================================

// Remap moves the anchors through a document mapping. Only an active,
// anchored state is touched; text, loading, kind and visibility never
// change here.
func (s State) Remap(m document.Mapping) State {
	if s.Empty() || !s.Anchored() || m.IsIdentity() {
		return s
	}
	r := m.MapRange(document.Range{From: s.Start, To: s.End})
	s.Start = r.From
	s.End = r.To
	return s
}

// ClampPos clamps an anchor position into the valid widget range for a
// document of docLen runes. Positions past the end (including anchors left
// dangling by a shrinking edit) land at the end of the document.
func ClampPos(pos, docLen int) int {
	if pos < 0 {
		return 0
	}
	if pos > docLen {
		return docLen
	}
	return pos
}

// ============================================================================
// Store
// ============================================================================

// Store serializes all overlay mutations behind a mutex so the stream
// goroutine and the editor loop observe one coherent state. It is held as
// a pointer so bubbletea model copies share the slot.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore returns a store holding the Empty state.
func NewStore() *Store {
	return &Store{state: EmptyState()}
}

// Dispatch applies a command and returns the resulting state.
func (st *Store) Dispatch(cmd Command) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = st.state.Apply(cmd)
	return st.state
}

// Remap repositions the stored anchors through a document mapping.
func (st *Store) Remap(m document.Mapping) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = st.state.Remap(m)
	return st.state
}

// State returns a snapshot of the current overlay state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkwell-tui/inkwell/internal/assist"
	"github.com/inkwell-tui/inkwell/internal/autosave"
	"github.com/inkwell-tui/inkwell/internal/document"
	"github.com/inkwell-tui/inkwell/internal/preview"
	"github.com/inkwell-tui/inkwell/internal/ui/components"
	"github.com/inkwell-tui/inkwell/internal/ui/styles"
)

// =============================================================================
// EDITOR MODEL
// =============================================================================

// Deps bundles everything the drafting view needs wired in at startup.
// All pointer fields are shared with the rest of the application.
type Deps struct {
	Theme        *styles.Theme
	Doc          *document.Document
	Store        *preview.Store
	Orchestrator *assist.Orchestrator
	Saver        *autosave.Saver
	Toasts       *components.ToastManager
	DraftTitle   string
}

// Model is the Bubble Tea model for the drafting view. Shared mutable
// state lives behind pointers so Update's value copies stay coherent.
type Model struct {
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Document and AI assist
	doc    *document.Document
	store  *preview.Store
	orch   *assist.Orchestrator
	saver  *autosave.Saver
	toasts *components.ToastManager

	// UI components
	spin   spinner.Model
	keyMap KeyMap

	// Viewport scroll offset in document lines.
	scroll int

	title    string
	quitting bool
}

// New creates the drafting view and wires the document transaction
// listener: every content change repositions the preview anchors and arms
// the autosaver.
func New(deps Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Theme.Spinner

	m := Model{
		theme:  deps.Theme,
		doc:    deps.Doc,
		store:  deps.Store,
		orch:   deps.Orchestrator,
		saver:  deps.Saver,
		toasts: deps.Toasts,
		spin:   sp,
		keyMap: DefaultKeyMap(),
		title:  deps.DraftTitle,
	}
	if m.title == "" {
		m.title = "inkwell"
	}

	doc := deps.Doc
	store := deps.Store
	saver := deps.Saver
	doc.OnTransaction(func(tx document.Transaction) {
		if !tx.DocChanged {
			return
		}
		store.Remap(tx.Mapping)
		if saver != nil {
			saver.Touch(doc.Text())
		}
	})

	return m
}

// Init starts the spinner and the toast expiry ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, components.ToastTickCmd())
}

// PreviewState exposes the overlay state for the view and tests.
func (m Model) PreviewState() preview.State {
	return m.store.State()
}

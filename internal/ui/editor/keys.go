// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the drafting view.
type KeyMap struct {
	Quit    key.Binding
	Save    key.Binding
	Mark    key.Binding
	Polish  key.Binding
	Expand  key.Binding
	Summary key.Binding
	Apply   key.Binding
	Discard key.Binding
	StopGen key.Binding
}

// DefaultKeyMap returns the default key bindings for the drafting view.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save draft"),
		),
		Mark: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("C-space", "set/clear mark"),
		),
		Polish: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "polish"),
		),
		Expand: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "expand"),
		),
		Summary: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "summarize"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "apply preview"),
		),
		Discard: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "discard preview"),
		),
		StopGen: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "stop generating"),
		),
	}
}

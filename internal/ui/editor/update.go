// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkwell-tui/inkwell/internal/assist"
	"github.com/inkwell-tui/inkwell/internal/preview"
	"github.com/inkwell-tui/inkwell/internal/ui/components"
)

// Update is the Bubble Tea update loop for the drafting view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()

	case StreamEventMsg:
		m.orch.HandleStreamEvent(msg.Event)
		return m, nil

	case SaveDoneMsg:
		if msg.Err != nil {
			m.toasts.AddError("Save failed: " + msg.Err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey dispatches one key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if m.saver != nil {
			m.saver.Flush()
			m.saver.Stop()
		}
		m.orch.Discard()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Save):
		if m.saver != nil {
			m.saver.Touch(m.doc.Text())
			m.saver.Flush()
			m.toasts.AddSuccess("Draft saved")
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Mark):
		if m.doc.HasMark() {
			m.doc.ClearMark()
		} else {
			m.doc.SetMark()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Polish):
		m.invoke(preview.KindPolish)
		return m, nil

	case key.Matches(msg, m.keyMap.Expand):
		m.invoke(preview.KindExpand)
		return m, nil

	case key.Matches(msg, m.keyMap.Summary):
		m.invoke(preview.KindSummary)
		return m, nil

	case key.Matches(msg, m.keyMap.Apply):
		m.orch.Apply()
		return m, nil

	case key.Matches(msg, m.keyMap.Discard):
		m.orch.Discard()
		return m, nil

	case key.Matches(msg, m.keyMap.StopGen):
		m.orch.Stop()
		return m, nil
	}

	return m.handleEditKey(msg)
}

// invoke starts a generation and surfaces precondition failures as toasts.
func (m Model) invoke(kind preview.Kind) {
	switch err := m.orch.Invoke(kind); {
	case err == nil:
	case errors.Is(err, assist.ErrBusy):
		m.toasts.AddStatus("A generation is already running")
	case errors.Is(err, assist.ErrEmptyInput):
		m.toasts.AddStatus("Nothing to send")
	default:
		m.toasts.AddError(err.Error())
	}
}

// handleEditKey applies plain editing keys to the document buffer.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left":
		m.doc.MoveCursor(-1)
	case "right":
		m.doc.MoveCursor(1)
	case "up":
		m.moveVertical(-1)
	case "down":
		m.moveVertical(1)
	case "home":
		m.doc.SetCursor(m.lineStart(m.doc.Cursor()))
	case "end":
		m.doc.SetCursor(m.lineEnd(m.doc.Cursor()))
	case "backspace":
		if _, ok := m.doc.SelectionRange(); ok {
			m.doc.ReplaceSelection("")
		} else {
			m.doc.DeleteBackward(1)
		}
	case "delete":
		if _, ok := m.doc.SelectionRange(); ok {
			m.doc.ReplaceSelection("")
		} else {
			m.doc.DeleteForward(1)
		}
	case "enter":
		m.doc.ReplaceSelection("\n")
	case "tab":
		m.doc.ReplaceSelection("\t")
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
			m.doc.ReplaceSelection(string(msg.Runes))
		}
	}
	m = m.ensureCursorVisible()
	return m, nil
}

// =============================================================================
// CURSOR GEOMETRY
// =============================================================================

// lineStart returns the offset of the first rune of the line holding pos.
func (m Model) lineStart(pos int) int {
	text := []rune(m.doc.Text())
	for pos > 0 && pos <= len(text) && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the last rune of the line holding
// pos (the position of its trailing newline, or the document end).
func (m Model) lineEnd(pos int) int {
	text := []rune(m.doc.Text())
	for pos < len(text) && text[pos] != '\n' {
		pos++
	}
	return pos
}

// moveVertical moves the cursor a line up or down, keeping the column
// where possible.
func (m Model) moveVertical(delta int) {
	cursor := m.doc.Cursor()
	start := m.lineStart(cursor)
	col := cursor - start

	text := []rune(m.doc.Text())
	var targetStart int
	if delta < 0 {
		if start == 0 {
			return
		}
		targetStart = m.lineStart(start - 1)
	} else {
		end := m.lineEnd(cursor)
		if end >= len(text) {
			return
		}
		targetStart = end + 1
	}

	targetEnd := m.lineEnd(targetStart)
	target := targetStart + col
	if target > targetEnd {
		target = targetEnd
	}
	m.doc.SetCursor(target)
}

// ensureCursorVisible scrolls the viewport so the cursor line stays on
// screen.
func (m Model) ensureCursorVisible() Model {
	if m.height <= 0 {
		return m
	}
	visible := m.bodyHeight()
	line := strings.Count(string([]rune(m.doc.Text())[:m.doc.Cursor()]), "\n")
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+visible {
		m.scroll = line - visible + 1
	}
	return m
}

// bodyHeight is the line count available to the document body after the
// header and status bar.
func (m Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

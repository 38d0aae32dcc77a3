// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inkwell-tui/inkwell/internal/ui/components"
	"github.com/inkwell-tui/inkwell/internal/util"
)

// View renders the drafting view: header, document body with the preview
// overlay spliced in at its anchor line, status bar, and any toasts.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.toasts.HasToasts() {
		b.WriteString("\n")
		b.WriteString(components.RenderToasts(m.theme, m.toasts.GetToasts(), m.width))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	title := util.TruncateWidth(m.title, m.width-2)
	return m.theme.Header.Width(m.width).Render(title)
}

// renderBody renders the visible document lines and splices the preview
// widget right below the line its anchor falls on.
func (m Model) renderBody() string {
	lines := m.renderDocumentLines()

	if widget := components.RenderPreview(m.theme, m.store.State(), m.doc.Len(), m.width); widget != nil {
		anchorLine := m.lineOfOffset(widget.Pos)
		insertAt := anchorLine + 1
		if insertAt > len(lines) {
			insertAt = len(lines)
		}
		widgetLines := strings.Split(widget.Content, "\n")
		lines = append(lines[:insertAt], append(widgetLines, lines[insertAt:]...)...)
	}

	visible := m.bodyHeight()
	start := m.scroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[start:end], "\n")

	// Pad to keep the status bar pinned.
	if pad := visible - (end - start); pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body
}

// renderDocumentLines styles the buffer, marking the cursor cell and any
// selection.
func (m Model) renderDocumentLines() []string {
	text := []rune(m.doc.Text())
	cursor := m.doc.Cursor()
	sel, hasSel := m.doc.SelectionRange()

	if len(text) == 0 {
		hint := m.theme.EditorEmptyHint.Render("Start typing, or C-p / C-e / C-y for AI assist")
		return []string{m.theme.EditorCursor.Render(" ") + " " + hint}
	}

	styleAt := func(i int) lipgloss.Style {
		switch {
		case i == cursor:
			return m.theme.EditorCursor
		case hasSel && i >= sel.From && i < sel.To:
			return m.theme.EditorSelection
		default:
			return m.theme.EditorText
		}
	}

	var lines []string
	var line strings.Builder
	for i, r := range text {
		if r == '\n' {
			if i == cursor {
				line.WriteString(m.theme.EditorCursor.Render(" "))
			}
			lines = append(lines, line.String())
			line.Reset()
			continue
		}
		line.WriteString(styleAt(i).Render(string(r)))
	}
	if cursor == len(text) {
		line.WriteString(m.theme.EditorCursor.Render(" "))
	}
	lines = append(lines, line.String())
	return lines
}

// lineOfOffset returns the zero-based line index holding a rune offset.
func (m Model) lineOfOffset(pos int) int {
	text := []rune(m.doc.Text())
	if pos > len(text) {
		pos = len(text)
	}
	return strings.Count(string(text[:pos]), "\n")
}

func (m Model) renderStatusBar() string {
	var left string
	if m.orch.Busy() {
		left = m.spin.View() + m.theme.ThinkingText.Render(" generating")
	} else if _, ok := m.doc.SelectionRange(); ok {
		left = m.theme.ShortcutDesc.Render("selection active")
	} else {
		left = m.theme.ShortcutDesc.Render("ready")
	}

	shortcuts := []struct{ k, d string }{
		{"C-space", "mark"},
		{"C-p", "polish"},
		{"C-e", "expand"},
		{"C-y", "summary"},
		{"C-s", "save"},
		{"C-q", "quit"},
	}
	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.k)+m.theme.ShortcutDesc.Render(" "+s.d))
	}
	right := strings.Join(parts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

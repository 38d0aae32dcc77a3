// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inkwell-tui/inkwell/internal/preview"
	"github.com/inkwell-tui/inkwell/internal/ui/styles"
)

// =============================================================================
// PREVIEW WIDGET
// =============================================================================

// PreviewWidget is the rendered AI overlay box, positioned at a document
// offset. The key changes whenever position, content length or loading
// state change, so hosts can tell a moved or updated widget from an
// identical redraw.
type PreviewWidget struct {
	// Pos is the rune offset the widget is anchored at, already clamped
	// into the document.
	Pos int
	// Key identifies this rendering of the widget.
	Key string
	// Content is the rendered box.
	Content string
}

// labelFor maps a preview kind to its widget heading.
func labelFor(kind preview.Kind) string {
	switch kind {
	case preview.KindPolish:
		return "AI Polish"
	case preview.KindExpand:
		return "AI Expand"
	case preview.KindSummary:
		return "AI Summary"
	default:
		return "AI Generated"
	}
}

// RenderPreview builds the overlay widget for an active preview state.
// It returns nil for the Empty state. The anchor position is clamped into
// [0, docLen] so a widget never points past the document.
func RenderPreview(theme *styles.Theme, st preview.State, docLen, width int) *PreviewWidget {
	if st.Empty() {
		return nil
	}

	pos := st.End
	if pos < 0 {
		pos = st.Start
	}
	pos = preview.ClampPos(pos, docLen)

	boxWidth := width - 4
	if boxWidth > 72 {
		boxWidth = 72
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	var lines []string
	lines = append(lines, theme.PreviewLabel.Render(labelFor(st.Kind)))

	switch {
	case st.Text != "" && st.Loading:
		lines = append(lines, theme.PreviewStreaming.Render(st.Text))
	case st.Text != "":
		lines = append(lines, theme.PreviewBody.Render(st.Text))
	case st.Loading:
		lines = append(lines, theme.PreviewHint.Render("Generating..."))
	}

	controls := []string{"[d] discard"}
	if st.Loading {
		controls = append(controls, "[g] stop")
	} else if st.Text != "" {
		controls = append(controls, "[a] apply")
	}
	lines = append(lines, theme.PreviewControls.Render(strings.Join(controls, "  ")))

	content := theme.PreviewBox.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return &PreviewWidget{
		Pos:     pos,
		Key:     fmt.Sprintf("ai-preview-%d-%d-%t", pos, len(st.Text), st.Loading),
		Content: content,
	}
}

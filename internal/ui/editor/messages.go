// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/inkwell-tui/inkwell/internal/stream"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamEventMsg carries one session event back into the Bubble Tea loop.
// The orchestrator's emit callback sends these through the program so all
// preview mutations happen on the Update goroutine.
type StreamEventMsg struct {
	Event stream.Event
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// SaveDoneMsg reports the outcome of a manual or autosave save.
type SaveDoneMsg struct {
	DraftID string
	Err     error
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"
	"sync"

	"github.com/inkwell-tui/inkwell/internal/preview"
)

// Coordinator translates session events into preview commands for exactly
// one active session at a time. Events carrying any other session identity
// are dropped, which makes stopping and superseding generations safe: the
// old goroutine keeps emitting into the void.
type Coordinator struct {
	mu       sync.Mutex
	active   *Session
	dispatch func(preview.Command)
	notify   func(string)
	release  func()
}

// NewCoordinator wires a coordinator to the preview dispatcher. notify
// receives user-facing failure notices; release is invoked once per
// terminal status (ready or error) so the owner can clear its busy flag.
// Either callback may be nil.
func NewCoordinator(dispatch func(preview.Command), notify func(string), release func()) *Coordinator {
	return &Coordinator{dispatch: dispatch, notify: notify, release: release}
}

// Attach makes s the active session. Any previously attached session is
// implicitly detached; its remaining events will be ignored.
func (c *Coordinator) Attach(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = s
}

// Detach drops the active session without touching the preview.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// Active returns the currently attached session, or nil.
func (c *Coordinator) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Handle processes one session event. Events from a session other than the
// attached one are dropped.
func (c *Coordinator) Handle(e Event) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active == nil || e.SessionID() != active.ID() {
		return
	}

	switch ev := e.(type) {
	case MessagesChanged:
		c.pushText(active)
	case StatusChanged:
		c.handleStatus(active, ev.Status)
	case Finished:
		c.handleFinish(ev.Result)
	}
}

// pushText forwards the latest assistant text into the preview. Empty text
// is never pushed, so the loading placeholder survives until the first real
// token arrives.
func (c *Coordinator) pushText(s *Session) {
	text := s.LastAssistantText()
	if text == "" {
		return
	}
	c.dispatch(preview.TextUpdate(text, s.Status() == StatusStreaming))
}

func (c *Coordinator) handleStatus(s *Session, status Status) {
	switch status {
	case StatusStreaming:
		// Re-assert the text in case a messages event raced the flip.
		c.pushText(s)
	case StatusReady, StatusError:
		c.dispatch(preview.LoadingUpdate(false))
		if c.release != nil {
			c.release()
		}
	}
}

// handleFinish surfaces failures to the user. Partial streamed text stays
// in the preview so nothing already shown is lost.
func (c *Coordinator) handleFinish(r FinishResult) {
	if !r.IsError || c.notify == nil {
		return
	}
	c.notify(describeFailure(r))
}

// describeFailure maps a failed finish onto a user-facing notice.
func describeFailure(r FinishResult) string {
	msg := ""
	if r.Err != nil {
		msg = strings.ToLower(r.Err.Error())
	}
	switch {
	case strings.Contains(msg, "insufficient balance") || strings.Contains(msg, "payment required"):
		return "AI assist failed: insufficient balance, please top up"
	case strings.Contains(msg, "ref_id conflict") || strings.Contains(msg, "conflict"):
		return "AI assist failed: a billing conflict occurred, please retry"
	case r.IsDisconnect:
		return "AI assist failed: connection lost"
	default:
		return "AI assist failed, please try again"
	}
}

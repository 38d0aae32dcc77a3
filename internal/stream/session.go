// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/inkwell-tui/inkwell/internal/gateway"
)

// ============================================================================
// Status
// ============================================================================

// Status is the lifecycle phase of a session.
type Status int

const (
	// StatusIdle means the session has not been started.
	StatusIdle Status = iota
	// StatusSubmitted means the request was sent but no token arrived yet.
	StatusSubmitted
	// StatusStreaming means assistant tokens are arriving.
	StatusStreaming
	// StatusReady means the generation completed normally.
	StatusReady
	// StatusError means the generation failed or was aborted.
	StatusError
)

// String returns a short lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusStreaming:
		return "streaming"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ============================================================================
// Messages
// ============================================================================

// PartType tags one segment of a message.
type PartType string

const (
	// PartText is plain assistant text.
	PartText PartType = "text"
	// PartReasoning is model reasoning that must never reach the document.
	PartReasoning PartType = "reasoning"
)

// Part is one segment of a message.
type Part struct {
	Type PartType
	Text string
}

// Message is one conversation entry inside a session.
type Message struct {
	ID    string
	Role  string
	Parts []Part
}

// TextContent joins the text parts of the message, skipping reasoning and
// any other non-text segments.
func (m Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// ============================================================================
// Transport
// ============================================================================

// Transport streams a generation for a prompt, invoking onToken for each
// assistant text fragment as it arrives. It returns once the stream ends,
// with a nil error on normal completion.
type Transport interface {
	Stream(ctx context.Context, prompt string, onToken func(string)) error
}

// ============================================================================
// Events
// ============================================================================

// Event is a session progress notification. All events carry the ID of the
// session that produced them so consumers can gate on identity.
type Event interface {
	SessionID() string
}

// MessagesChanged reports that the session's message list mutated.
type MessagesChanged struct {
	ID string
}

// SessionID returns the originating session ID.
func (e MessagesChanged) SessionID() string { return e.ID }

// StatusChanged reports a status transition.
type StatusChanged struct {
	ID     string
	Status Status
}

// SessionID returns the originating session ID.
func (e StatusChanged) SessionID() string { return e.ID }

// FinishResult describes how a session ended.
type FinishResult struct {
	Message      *Message
	Err          error
	IsError      bool
	IsDisconnect bool
	IsAbort      bool
}

// Finished reports that the session goroutine exited.
type Finished struct {
	ID     string
	Result FinishResult
}

// SessionID returns the originating session ID.
func (e Finished) SessionID() string { return e.ID }

// ============================================================================
// Session
// ============================================================================

// Session is a single generation run. It is safe for concurrent use; the
// streaming goroutine and the UI loop may touch it at the same time.
type Session struct {
	id string

	mu       sync.Mutex
	status   Status
	messages []Message
	cancel   context.CancelFunc
}

// NewSession creates an idle session with a fresh identity.
func NewSession() *Session {
	return &Session{id: uuid.NewString(), status: StatusIdle}
}

// ID returns the session's immutable identity.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Messages returns a snapshot of the session's messages.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// LastAssistantText returns the joined text content of the most recent
// assistant message, or "" when none exists.
func (s *Session) LastAssistantText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == "assistant" {
			return s.messages[i].TextContent()
		}
	}
	return ""
}

// Start launches the generation on its own goroutine. The notify callback
// receives every progress event; it must be safe to call from that
// goroutine. Start is a no-op on a session that already ran.
func (s *Session) Start(transport Transport, prompt string, notify func(Event)) {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = StatusSubmitted
	s.messages = append(s.messages,
		Message{ID: uuid.NewString(), Role: "user", Parts: []Part{{Type: PartText, Text: prompt}}})
	s.mu.Unlock()

	notify(StatusChanged{ID: s.id, Status: StatusSubmitted})

	go s.run(ctx, transport, prompt, notify)
}

func (s *Session) run(ctx context.Context, transport Transport, prompt string, notify func(Event)) {
	err := transport.Stream(ctx, prompt, func(token string) {
		s.appendToken(token, notify)
	})

	s.mu.Lock()
	s.cancel = nil
	var msg *Message
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == "assistant" {
			m := s.messages[i]
			msg = &m
			break
		}
	}

	result := FinishResult{Message: msg}
	switch {
	case err == nil:
		s.status = StatusReady
	case errors.Is(err, context.Canceled):
		s.status = StatusError
		result.IsAbort = true
		result.Err = err
	default:
		s.status = StatusError
		result.IsError = true
		result.IsDisconnect = gateway.IsConnectionError(err)
		result.Err = err
	}
	status := s.status
	s.mu.Unlock()

	notify(StatusChanged{ID: s.id, Status: status})
	notify(Finished{ID: s.id, Result: result})
}

// appendToken folds a streamed fragment into the assistant message,
// creating it on the first token, and flips the session into streaming.
func (s *Session) appendToken(token string, notify func(Event)) {
	s.mu.Lock()
	statusChanged := false
	if s.status == StatusSubmitted {
		s.status = StatusStreaming
		statusChanged = true
	}
	n := len(s.messages)
	if n == 0 || s.messages[n-1].Role != "assistant" {
		s.messages = append(s.messages, Message{ID: uuid.NewString(), Role: "assistant"})
		n++
	}
	msg := &s.messages[n-1]
	if k := len(msg.Parts); k > 0 && msg.Parts[k-1].Type == PartText {
		msg.Parts[k-1].Text += token
	} else {
		msg.Parts = append(msg.Parts, Part{Type: PartText, Text: token})
	}
	s.mu.Unlock()

	if statusChanged {
		notify(StatusChanged{ID: s.id, Status: StatusStreaming})
	}
	notify(MessagesChanged{ID: s.id})
}

// Stop cancels the in-flight generation, if any. Safe to call repeatedly;
// the goroutine still reports its Finished event as an abort.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

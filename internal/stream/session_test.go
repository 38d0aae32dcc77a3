// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-tui/inkwell/internal/gateway"
)

// fakeTransport emits a fixed token sequence, honoring context cancellation
// between tokens. A non-nil err is returned after the tokens.
type fakeTransport struct {
	tokens []string
	err    error
	// gate, when non-nil, is received from before each token so tests can
	// pace the stream.
	gate chan struct{}
}

func (f *fakeTransport) Stream(ctx context.Context, prompt string, onToken func(string)) error {
	for _, tok := range f.tokens {
		if f.gate != nil {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		onToken(tok)
	}
	if f.err != nil {
		return f.err
	}
	return ctx.Err()
}

// collectEvents drains notify callbacks into a channel large enough for
// any test sequence.
func collectEvents() (func(Event), chan Event) {
	ch := make(chan Event, 64)
	return func(e Event) { ch <- e }, ch
}

// waitFinished pulls events until a Finished arrives, returning everything
// seen along the way.
func waitFinished(t *testing.T, ch chan Event) (events []Event, fin Finished) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			events = append(events, e)
			if f, ok := e.(Finished); ok {
				return events, f
			}
		case <-deadline:
			t.Fatal("timed out waiting for Finished event")
		}
	}
}

func TestSessionStreamsTokens(t *testing.T) {
	notify, ch := collectEvents()
	s := NewSession()
	s.Start(&fakeTransport{tokens: []string{"Hel", "lo ", "there"}}, "polish this", notify)

	events, fin := waitFinished(t, ch)

	if s.Status() != StatusReady {
		t.Errorf("status = %v, want ready", s.Status())
	}
	if got := s.LastAssistantText(); got != "Hello there" {
		t.Errorf("LastAssistantText = %q", got)
	}
	if fin.Result.IsError || fin.Result.IsAbort {
		t.Errorf("unexpected failure result: %+v", fin.Result)
	}
	if fin.Result.Message == nil || fin.Result.Message.TextContent() != "Hello there" {
		t.Error("Finished should carry the assistant message")
	}

	// submitted -> streaming -> ready, in order.
	var statuses []Status
	for _, e := range events {
		if sc, ok := e.(StatusChanged); ok {
			statuses = append(statuses, sc.Status)
		}
	}
	want := []Status{StatusSubmitted, StatusStreaming, StatusReady}
	if len(statuses) != len(want) {
		t.Fatalf("status sequence = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %v, want %v", i, statuses[i], want[i])
		}
	}
}

func TestSessionStopAborts(t *testing.T) {
	gate := make(chan struct{})
	notify, ch := collectEvents()
	s := NewSession()
	s.Start(&fakeTransport{tokens: []string{"partial", " more"}, gate: gate}, "expand", notify)

	// Let the first token through, wait for it to land, then cancel
	// before the second.
	gate <- struct{}{}
	deadline := time.After(2 * time.Second)
waitToken:
	for {
		select {
		case e := <-ch:
			if _, ok := e.(MessagesChanged); ok {
				break waitToken
			}
		case <-deadline:
			t.Fatal("timed out waiting for first token")
		}
	}
	s.Stop()

	_, fin := waitFinished(t, ch)
	if !fin.Result.IsAbort {
		t.Errorf("result = %+v, want abort", fin.Result)
	}
	if fin.Result.IsError {
		t.Error("an abort must not be classified as an error")
	}
	if s.Status() != StatusError {
		t.Errorf("status = %v, want error", s.Status())
	}
	if got := s.LastAssistantText(); got != "partial" {
		t.Errorf("partial text = %q, want %q", got, "partial")
	}
}

func TestSessionTransportError(t *testing.T) {
	notify, ch := collectEvents()
	s := NewSession()
	s.Start(&fakeTransport{tokens: []string{"half"}, err: errors.New("connection reset")}, "summary", notify)

	_, fin := waitFinished(t, ch)
	if !fin.Result.IsError {
		t.Errorf("result = %+v, want error", fin.Result)
	}
	if fin.Result.Err == nil {
		t.Error("error result should carry the cause")
	}
}

func TestSessionDisconnectClassified(t *testing.T) {
	notify, ch := collectEvents()
	s := NewSession()
	dropErr := &gateway.ClientError{Type: gateway.ErrTypeConnection, Message: "stream request failed"}
	s.Start(&fakeTransport{tokens: []string{"half"}, err: dropErr}, "polish", notify)

	_, fin := waitFinished(t, ch)
	if !fin.Result.IsError {
		t.Errorf("result = %+v, want error", fin.Result)
	}
	if !fin.Result.IsDisconnect {
		t.Error("a connection-level failure should be classified as a disconnect")
	}
}

func TestSessionProtocolErrorNotDisconnect(t *testing.T) {
	notify, ch := collectEvents()
	s := NewSession()
	s.Start(&fakeTransport{err: gateway.ErrPaymentRequired}, "polish", notify)

	_, fin := waitFinished(t, ch)
	if fin.Result.IsDisconnect {
		t.Error("a billing failure must not be classified as a disconnect")
	}
}

func TestSessionStartTwiceIgnored(t *testing.T) {
	notify, ch := collectEvents()
	s := NewSession()
	s.Start(&fakeTransport{tokens: []string{"a"}}, "p", notify)
	waitFinished(t, ch)

	s.Start(&fakeTransport{tokens: []string{"b"}}, "p", notify)
	select {
	case e := <-ch:
		t.Errorf("second Start should be a no-op, got %T", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionIdentity(t *testing.T) {
	a, b := NewSession(), NewSession()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Error("sessions must carry distinct non-empty identities")
	}
}

func TestMessageTextContentSkipsReasoning(t *testing.T) {
	m := Message{Role: "assistant", Parts: []Part{
		{Type: PartReasoning, Text: "thinking..."},
		{Type: PartText, Text: "visible "},
		{Type: PartText, Text: "answer"},
	}}
	if got := m.TextContent(); got != "visible answer" {
		t.Errorf("TextContent = %q", got)
	}
}

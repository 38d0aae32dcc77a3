// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inkwell-tui/inkwell/internal/document"
	"github.com/inkwell-tui/inkwell/internal/preview"
)

// scriptedTransport streams tokens pushed through a channel, so tests
// control exactly when each fragment arrives.
type scriptedTransport struct {
	mu     sync.Mutex
	prompt string
	tokens chan string
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{tokens: make(chan string, 16)}
}

func (s *scriptedTransport) Stream(ctx context.Context, prompt string, onToken func(string)) error {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()
	for {
		select {
		case tok, ok := <-s.tokens:
			if !ok {
				return nil
			}
			onToken(tok)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *scriptedTransport) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// harness wires a document, preview store and orchestrator the way the
// editor does, including anchor remapping on document transactions.
type harness struct {
	doc       *document.Document
	store     *preview.Store
	orch      *Orchestrator
	transport *scriptedTransport

	mu       sync.Mutex
	notices  []string
	recorded []string
}

func newHarness(t *testing.T, text string) *harness {
	t.Helper()
	h := &harness{
		doc:       document.NewWithText(text),
		store:     preview.NewStore(),
		transport: newScriptedTransport(),
	}
	h.doc.OnTransaction(func(tx document.Transaction) {
		if tx.DocChanged {
			h.store.Remap(tx.Mapping)
		}
	})
	h.orch = New(h.doc, h.transport, h.store, Config{
		Notify: func(msg string) {
			h.mu.Lock()
			h.notices = append(h.notices, msg)
			h.mu.Unlock()
		},
		Record: func(kind, input, output string) {
			h.mu.Lock()
			h.recorded = append(h.recorded, kind+":"+output)
			h.mu.Unlock()
		},
	})
	return h
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestInvokeSelectionStreamApply(t *testing.T) {
	h := newHarness(t, "The quick brown fox")
	h.doc.Select(4, 9) // "quick"

	if err := h.orch.Invoke(preview.KindPolish); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !h.orch.Busy() {
		t.Error("orchestrator should be busy after Invoke")
	}

	st := h.store.State()
	if st.Start != 4 || st.End != 9 || !st.Loading || st.Kind != preview.KindPolish {
		t.Fatalf("initial preview = %+v", st)
	}

	h.transport.tokens <- "rapid"
	waitFor(t, "streamed text", func() bool { return h.orch.PreviewText() == "rapid" })

	// An edit before the anchors shifts them without touching the text.
	h.doc.ReplaceRange(0, 0, "** ")
	st = h.store.State()
	if st.Start != 7 || st.End != 12 {
		t.Errorf("anchors after edit = (%d, %d), want (7, 12)", st.Start, st.End)
	}
	if st.Text != "rapid" {
		t.Errorf("remap changed text to %q", st.Text)
	}

	close(h.transport.tokens)
	waitFor(t, "generation settled", func() bool { return !h.orch.Busy() })
	if h.store.State().Loading {
		t.Error("preview should settle after the stream completes")
	}

	h.orch.Apply()
	if got := h.doc.Text(); got != "** The rapid brown fox" {
		t.Errorf("document = %q", got)
	}
	if !h.store.State().Empty() {
		t.Error("apply should clear the preview")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.recorded) != 1 || h.recorded[0] != "polish:rapid" {
		t.Errorf("recorded = %v", h.recorded)
	}
}

func TestInvokeWithoutSelectionInsertsAtCursor(t *testing.T) {
	h := newHarness(t, "abc")
	h.doc.SetCursor(3)

	if err := h.orch.Invoke(preview.KindSummary); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	st := h.store.State()
	if st.Anchored() {
		t.Errorf("whole-document invoke should be cursor-anchored, got (%d, %d)", st.Start, st.End)
	}

	h.transport.tokens <- "xyz"
	close(h.transport.tokens)
	waitFor(t, "generation settled", func() bool { return !h.orch.Busy() })

	h.orch.Apply()
	if got := h.doc.Text(); got != "abcxyz" {
		t.Errorf("document = %q", got)
	}
}

func TestDiscardDuringStreamLeavesDocumentUntouched(t *testing.T) {
	h := newHarness(t, "hello world")
	h.doc.Select(0, 5)

	if err := h.orch.Invoke(preview.KindExpand); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	h.transport.tokens <- "partial"
	waitFor(t, "streamed text", func() bool { return h.orch.PreviewText() == "partial" })

	h.orch.Discard()
	if !h.store.State().Empty() {
		t.Error("discard should clear the preview")
	}
	if h.orch.Busy() {
		t.Error("discard should release the busy flag")
	}
	if got := h.doc.Text(); got != "hello world" {
		t.Errorf("document = %q, want unchanged", got)
	}

	// The aborted goroutine must not resurrect the preview.
	time.Sleep(20 * time.Millisecond)
	if !h.store.State().Empty() {
		t.Error("stale session wrote into the cleared preview")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.notices) != 0 {
		t.Errorf("abort raised notices: %v", h.notices)
	}
}

func TestStopMatchesDiscard(t *testing.T) {
	h := newHarness(t, "draft text")

	if err := h.orch.Invoke(preview.KindPolish); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	h.transport.tokens <- "half"
	waitFor(t, "streamed text", func() bool { return h.orch.PreviewText() == "half" })

	h.orch.Stop()
	if !h.store.State().Empty() || h.orch.Busy() {
		t.Error("stop should clear the preview and release the busy flag")
	}
	if got := h.doc.Text(); got != "draft text" {
		t.Errorf("document = %q, want unchanged", got)
	}
}

func TestInvokeBusyRejected(t *testing.T) {
	h := newHarness(t, "some text")

	if err := h.orch.Invoke(preview.KindPolish); err != nil {
		t.Fatalf("first Invoke: %v", err)
	}
	if err := h.orch.Invoke(preview.KindExpand); !errors.Is(err, ErrBusy) {
		t.Errorf("second Invoke = %v, want ErrBusy", err)
	}

	// The rejected call must not disturb the running preview.
	if got := h.store.State().Kind; got != preview.KindPolish {
		t.Errorf("preview kind = %v, want KindPolish", got)
	}
	close(h.transport.tokens)
}

func TestInvokeEmptyInputRejected(t *testing.T) {
	h := newHarness(t, "   \n\t  ")
	if err := h.orch.Invoke(preview.KindPolish); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Invoke = %v, want ErrEmptyInput", err)
	}
	if !h.store.State().Empty() {
		t.Error("rejected invoke must not open a preview")
	}
	if h.orch.Busy() {
		t.Error("rejected invoke must not set busy")
	}
}

func TestInvokeClipsLongInput(t *testing.T) {
	long := strings.Repeat("a", DefaultMaxInputRunes+500)
	h := newHarness(t, long)

	if err := h.orch.Invoke(preview.KindSummary); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	waitFor(t, "prompt captured", func() bool { return h.transport.lastPrompt() != "" })

	prompt := h.transport.lastPrompt()
	body := prompt[strings.LastIndex(prompt, "\n")+1:]
	if len([]rune(body)) != DefaultMaxInputRunes {
		t.Errorf("captured input = %d runes, want %d", len([]rune(body)), DefaultMaxInputRunes)
	}
	close(h.transport.tokens)
}

func TestApplyWithBlankPreviewIsNoOp(t *testing.T) {
	h := newHarness(t, "keep me")

	// No preview at all.
	h.orch.Apply()
	if got := h.doc.Text(); got != "keep me" {
		t.Errorf("document = %q", got)
	}

	// A loading preview with no text yet.
	h.store.Dispatch(preview.Set{From: 0, To: 4, Loading: true, Kind: preview.KindPolish})
	h.orch.Apply()
	if got := h.doc.Text(); got != "keep me" {
		t.Errorf("document = %q, want unchanged", got)
	}
	if h.store.State().Empty() {
		t.Error("no-op apply must not clear the preview")
	}
}

func TestInvokeSupersedesSettledPreview(t *testing.T) {
	h := newHarness(t, "one two three")
	h.doc.Select(0, 3)

	if err := h.orch.Invoke(preview.KindPolish); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	h.transport.tokens <- "ONE"
	close(h.transport.tokens)
	waitFor(t, "first generation settled", func() bool { return !h.orch.Busy() })

	// Second invocation replaces the settled preview wholesale.
	h.transport = newScriptedTransport()
	h.orch.transport = h.transport
	h.doc.Select(4, 7)
	if err := h.orch.Invoke(preview.KindExpand); err != nil {
		t.Fatalf("second Invoke: %v", err)
	}

	st := h.store.State()
	if st.Kind != preview.KindExpand || st.Text != "" || !st.Loading {
		t.Errorf("superseded preview = %+v", st)
	}
	if st.Start != 4 || st.End != 7 {
		t.Errorf("anchors = (%d, %d), want (4, 7)", st.Start, st.End)
	}
	close(h.transport.tokens)
}

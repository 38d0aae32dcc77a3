// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"errors"
	"strings"
	"sync"

	"github.com/inkwell-tui/inkwell/internal/document"
	"github.com/inkwell-tui/inkwell/internal/preview"
	"github.com/inkwell-tui/inkwell/internal/stream"
	"github.com/inkwell-tui/inkwell/internal/util"
)

// DefaultMaxInputRunes caps how much captured text is sent to the gateway.
const DefaultMaxInputRunes = 6000

// Sentinel errors for invocation preconditions.
var (
	// ErrBusy means a generation is already in flight.
	ErrBusy = errors.New("assist: a generation is already running")
	// ErrEmptyInput means there was no text to work on.
	ErrEmptyInput = errors.New("assist: nothing to send")
)

// Recorder receives applied generations, for example to persist a history.
type Recorder func(kind, input, output string)

// Config tunes an Orchestrator. Zero values get sane defaults.
type Config struct {
	// MaxInputRunes clips the captured text (default: DefaultMaxInputRunes).
	MaxInputRunes int

	// Notify receives user-facing failure notices. May be nil.
	Notify func(string)

	// Emit, when set, receives stream events instead of them being handled
	// synchronously. The owner must feed each event back through
	// HandleStreamEvent; this is how events re-enter a bubbletea loop.
	Emit func(stream.Event)

	// Record is called with each applied generation. May be nil.
	Record Recorder
}

// Orchestrator drives the invoke / apply / discard / stop lifecycle for a
// single document. Hold it as a pointer; it carries mutexes.
type Orchestrator struct {
	engine    document.Engine
	transport stream.Transport
	store     *preview.Store
	coord     *stream.Coordinator

	maxInput int
	emit     func(stream.Event)
	record   Recorder

	mu           sync.Mutex
	busy         bool
	hadSelection bool
	lastInput    string
	session      *stream.Session
}

// New wires an orchestrator to a document engine, a streaming transport and
// the preview store.
func New(engine document.Engine, transport stream.Transport, store *preview.Store, cfg Config) *Orchestrator {
	o := &Orchestrator{
		engine:    engine,
		transport: transport,
		store:     store,
		maxInput:  cfg.MaxInputRunes,
		emit:      cfg.Emit,
		record:    cfg.Record,
	}
	if o.maxInput <= 0 {
		o.maxInput = DefaultMaxInputRunes
	}
	dispatch := func(cmd preview.Command) { store.Dispatch(cmd) }
	o.coord = stream.NewCoordinator(dispatch, cfg.Notify, o.release)
	return o
}

// ============================================================================
// Invoke
// ============================================================================

// Invoke captures the current selection (or the whole document when nothing
// is selected), shows a loading preview anchored to the captured range, and
// starts a streaming generation. It returns ErrBusy while a generation is
// in flight and ErrEmptyInput when there is no text to send.
func (o *Orchestrator) Invoke(kind preview.Kind) error {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return ErrBusy
	}

	// Capture the target before anything async happens; edits made during
	// streaming are handled by anchor remapping, not by re-reading here.
	sel, hasSelection := o.engine.SelectionRange()
	input := o.engine.SelectedText()
	if !hasSelection {
		input = o.engine.Text()
	}
	input = strings.TrimSpace(input)
	if input == "" {
		o.mu.Unlock()
		return ErrEmptyInput
	}
	input = util.TruncateRunesNoEllipsis(input, o.maxInput)

	// Supersede any settled preview from a previous run.
	prev := o.session
	o.session = nil

	anchorFrom, anchorTo := -1, -1
	if hasSelection {
		anchorFrom, anchorTo = sel.From, sel.To
	}

	o.busy = true
	o.hadSelection = hasSelection
	o.lastInput = input

	sess := stream.NewSession()
	o.session = sess
	o.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	o.coord.Detach()

	o.store.Dispatch(preview.Set{
		From:    anchorFrom,
		To:      anchorTo,
		Loading: true,
		Kind:    kind,
	})

	o.coord.Attach(sess)
	sess.Start(o.transport, promptFor(kind, input), o.handleEvent)
	return nil
}

// handleEvent routes a session event either out through the emit callback
// or straight into the coordinator.
func (o *Orchestrator) handleEvent(e stream.Event) {
	if o.emit != nil {
		o.emit(e)
		return
	}
	o.HandleStreamEvent(e)
}

// HandleStreamEvent feeds one stream event through the coordinator. Owners
// using an emit callback call this from their own loop.
func (o *Orchestrator) HandleStreamEvent(e stream.Event) {
	o.coord.Handle(e)
}

// release clears the busy flag once a session reaches a terminal status.
func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// ============================================================================
// Resolution
// ============================================================================

// Apply splices the preview text into the document at the tracked anchors
// and clears the overlay. A preview with no text is left untouched.
func (o *Orchestrator) Apply() {
	st := o.store.State()
	if st.Empty() || strings.TrimSpace(st.Text) == "" {
		return
	}

	o.mu.Lock()
	hadSelection := o.hadSelection
	input := o.lastInput
	sess := o.session
	o.session = nil
	o.busy = false
	o.mu.Unlock()

	switch {
	case st.Anchored():
		docLen := o.engine.Len()
		from := preview.ClampPos(st.Start, docLen)
		to := preview.ClampPos(st.End, docLen)
		o.engine.ReplaceRange(from, to, st.Text)
	case hadSelection:
		o.engine.ReplaceSelection(st.Text)
	default:
		o.engine.InsertAtCursor(st.Text)
	}

	if sess != nil {
		sess.Stop()
	}
	o.coord.Detach()
	o.store.Dispatch(preview.Clear{})

	if o.record != nil {
		o.record(st.Kind.String(), input, st.Text)
	}
}

// Discard drops the preview without touching the document and stops any
// in-flight generation.
func (o *Orchestrator) Discard() {
	o.mu.Lock()
	sess := o.session
	o.session = nil
	o.busy = false
	o.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
	o.coord.Detach()
	o.store.Dispatch(preview.Clear{})
}

// Stop aborts a streaming generation. The document and preview end up in
// the same state as a discard; partial text is not kept once the user
// explicitly stops.
func (o *Orchestrator) Stop() {
	o.Discard()
}

// ============================================================================
// Accessors
// ============================================================================

// Busy reports whether a generation is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// PreviewVisible reports whether an overlay is showing.
func (o *Orchestrator) PreviewVisible() bool {
	return !o.store.State().Empty()
}

// PreviewText returns the streamed text currently shown.
func (o *Orchestrator) PreviewText() string {
	return o.store.State().Text
}

// PreviewKind returns the mode of the active preview.
func (o *Orchestrator) PreviewKind() preview.Kind {
	return o.store.State().Kind
}

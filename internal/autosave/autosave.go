// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autosave debounces document changes into periodic saves.
//
// Every edit calls Touch with the latest content; the save function only
// fires once the document has been quiet for the debounce window. Flush
// forces a pending save immediately, Stop cancels it.
package autosave

import (
	"sync"
	"time"
)

// SaveFunc persists one snapshot of the document.
type SaveFunc func(content string)

// Saver coalesces rapid edits into a single delayed save. Hold it as a
// pointer; it carries a mutex.
type Saver struct {
	mu       sync.Mutex
	debounce time.Duration
	save     SaveFunc
	timer    *time.Timer
	pending  string
	dirty    bool
	stopped  bool
}

// New creates a saver that fires after debounce of quiet time.
func New(debounce time.Duration, save SaveFunc) *Saver {
	return &Saver{debounce: debounce, save: save}
}

// Touch records the latest content and (re)arms the debounce timer.
func (s *Saver) Touch(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = content
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

// fire runs on the timer goroutine once the quiet window elapses.
func (s *Saver) fire() {
	s.mu.Lock()
	if s.stopped || !s.dirty {
		s.mu.Unlock()
		return
	}
	content := s.pending
	s.dirty = false
	save := s.save
	s.mu.Unlock()

	save(content)
}

// Flush saves any pending content immediately and disarms the timer.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stopped || !s.dirty {
		s.mu.Unlock()
		return
	}
	content := s.pending
	s.dirty = false
	save := s.save
	s.mu.Unlock()

	save(content)
}

// Stop cancels any pending save and ignores further touches.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
	s.dirty = false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document implements the plain-text document engine for inkwell.
package document

// =============================================================================
// POSITION MAPPING
// =============================================================================

// Span describes a single replacement: OldLen runes starting at Start were
// replaced by NewLen runes. Coordinates are in the document version produced
// by any preceding spans of the same Mapping.
type Span struct {
	Start  int
	OldLen int
	NewLen int
}

// mapThrough translates pos across this span.
//
// Positions strictly before the replaced region are unchanged; positions at
// or after its end shift by the size delta. Positions inside the replaced
// region (including its start) collapse to the end of the replacement, so
// an anchor sitting at an insertion point or in deleted content lands just
// after whatever took its place.
func (sp Span) mapThrough(pos int) int {
	if pos < sp.Start {
		return pos
	}
	if pos >= sp.Start+sp.OldLen {
		return pos + sp.NewLen - sp.OldLen
	}
	return sp.Start + sp.NewLen
}

// Mapping translates rune offsets valid before a transaction to offsets
// valid after it. A transaction with several edits carries one span per
// edit, applied in sequence.
//
// The zero value is the identity mapping.
type Mapping struct {
	spans []Span
}

// NewMapping creates a mapping from the given spans.
func NewMapping(spans ...Span) Mapping {
	return Mapping{spans: spans}
}

// Append adds a span to the mapping. The span's coordinates must be in the
// document version produced by the spans already present.
func (m *Mapping) Append(sp Span) {
	m.spans = append(m.spans, sp)
}

// Map translates an offset through every span in order.
// The result is not clamped; callers that render positions clamp to the
// current document length themselves.
func (m Mapping) Map(pos int) int {
	for _, sp := range m.spans {
		pos = sp.mapThrough(pos)
	}
	return pos
}

// MapRange translates both ends of a range.
func (m Mapping) MapRange(r Range) Range {
	return Range{From: m.Map(r.From), To: m.Map(r.To)}
}

// IsIdentity reports whether the mapping carries no edits at all.
func (m Mapping) IsIdentity() bool {
	return len(m.spans) == 0
}

// =============================================================================
// RANGES
// =============================================================================

// Range is a rune offset range [From, To) within a document.
type Range struct {
	From int
	To   int
}

// Empty reports whether the range covers no content.
func (r Range) Empty() bool {
	return r.From >= r.To
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.To - r.From
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document implements the plain-text document engine for inkwell.
//
// The document is a rune-addressed text buffer with a cursor and a
// mark-based selection. Every mutation is expressed as a transaction that
// carries a position Mapping, translating offsets valid before the edit to
// offsets valid after it. Registered transaction listeners observe every
// transaction in order, which lets overlays keep anchored ranges valid
// while the document changes underneath them.
//
// # Key Types
//
//   - Document: the mutable text buffer (implements Engine)
//   - Engine: the capability surface consumers depend on
//   - Transaction: one mutation event with its Mapping
//   - Mapping / Span: offset translation across an edit
//   - Range: a rune offset range [From, To)
//
// # Usage
//
// Track a position across edits:
//
//	doc := document.NewWithText("hello world")
//	doc.OnTransaction(func(tr document.Transaction) {
//	    if tr.DocChanged {
//	        anchor = tr.Mapping.Map(anchor)
//	    }
//	})
//	doc.ReplaceRange(0, 5, "goodbye")
package document

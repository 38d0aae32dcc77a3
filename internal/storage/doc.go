// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for inkwell.
//
// Drafts and their AI generation history live in a single SQLite
// database under the data directory. The pure Go driver keeps the
// binary free of cgo.
//
// # Key Types
//
//   - DraftStore: open/save/load/list/delete drafts
//   - Draft: one persisted document
//   - Generation: one applied AI generation, kept as history
package storage

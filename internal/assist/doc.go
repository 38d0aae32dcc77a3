// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist orchestrates the user-facing AI drafting actions.
//
// The Orchestrator owns the lifecycle of one generation at a time: it
// captures the target text and its document anchors, launches a streaming
// session, and resolves the preview with apply, discard or stop. A busy
// flag rejects overlapping invocations; invoking again after a generation
// settles supersedes the previous preview.
//
// # Key Types
//
//   - Orchestrator: invoke / apply / discard / stop entry points
//   - Action: the generation mode requested by the user
//
// # Concurrency
//
// All entry points are called from the UI loop. Stream progress arrives
// either synchronously through HandleStreamEvent or via an emit callback
// that re-injects events into the loop.
package assist

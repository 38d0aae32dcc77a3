// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream runs AI generation sessions and translates their progress
// into preview overlay commands.
//
// A Session owns one generation: it carries a uuid identity, a status, and
// the accumulated assistant message, and it streams tokens from a Transport
// on its own goroutine. Every change is reported through a notify callback
// as an Event tagged with the session ID.
//
// The Coordinator sits between sessions and the preview overlay. It tracks
// the single active session and drops events from any other identity, so a
// superseded or stopped generation can never write into the preview of the
// one that replaced it.
//
// # Key Types
//
//   - Session: one generation run with identity, status and messages
//   - Transport: the streaming backend a session reads tokens from
//   - Event: MessagesChanged / StatusChanged / Finished notifications
//   - Coordinator: identity-gated bridge from events to preview commands
package stream

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across inkwell.
//
// # Key Functions
//
//   - TruncateRunes / TruncateRunesNoEllipsis: rune-safe string truncation
//   - StringWidth: terminal cell width of a string (CJK aware)
//   - Clamp: bound an integer into a closed range
//   - AtomicWriteFile: crash-safe file persistence
package util

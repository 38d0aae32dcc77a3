// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the inkwell TUI.
//
// The preview widget renders the AI overlay box that floats inside the
// editor; toasts are non-blocking corner notifications that auto-dismiss.
//
// # Key Types
//
//   - PreviewWidget: the positioned, keyed AI preview box
//   - Toast / ToastManager: transient notifications
package components

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import "github.com/inkwell-tui/inkwell/internal/preview"

// promptFor wraps the captured text in the instruction template for the
// requested mode. The templates ask for bare output so the stream can be
// spliced into the document verbatim.
func promptFor(kind preview.Kind, text string) string {
	switch kind {
	case preview.KindPolish:
		return "Polish the following text. Keep the meaning unchanged and output only the polished text, with no preamble:\n\n" + text
	case preview.KindExpand:
		return "Expand the following text with more detail and supporting ideas. Output only the expanded text, with no preamble:\n\n" + text
	case preview.KindSummary:
		return "Summarize the following text concisely. Output only the summary, with no preamble:\n\n" + text
	default:
		return text
	}
}

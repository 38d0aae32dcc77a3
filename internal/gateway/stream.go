// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
)

// =============================================================================
// STREAM READER
// =============================================================================

// streamChunk is one line of the newline-delimited JSON stream.
type streamChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// streamReader handles line-by-line JSON parsing of streaming responses.
type streamReader struct {
	reader *bufio.Reader
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{reader: bufio.NewReader(r)}
}

// process reads the stream and calls onToken for each content fragment.
// Blocks until the stream is complete or the context is cancelled.
func (s *streamReader) process(ctx context.Context, onToken func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.reader.ReadBytes('\n')
		if len(line) == 0 {
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
			}
			continue
		}

		var chunk streamChunk
		if jsonErr := json.Unmarshal(line, &chunk); jsonErr != nil {
			// Skip malformed lines
			if err == io.EOF {
				return nil
			}
			continue
		}

		if chunk.Error != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: chunk.Error}
		}

		if chunk.Message.Content != "" {
			onToken(chunk.Message.Content)
		}

		if chunk.Done {
			return nil
		}
		if err == io.EOF {
			return nil
		}
	}
}

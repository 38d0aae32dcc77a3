// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkwell-tui/inkwell/internal/util"
)

// =============================================================================
// JSON EXPORT
// =============================================================================

// exportedDraft is the JSON export shape for a draft and its history.
type exportedDraft struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Generations []exportedGeneration `json:"generations,omitempty"`
}

type exportedGeneration struct {
	Kind      string    `json:"kind"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportJSON writes a draft and its generation history to path as indented
// JSON. If path is empty, a filename is derived from the draft ID. Returns
// the path written.
func (s *DraftStore) ExportJSON(ctx context.Context, id, path string) (string, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return "", err
	}
	gens, err := s.ListGenerations(ctx, id)
	if err != nil {
		return "", err
	}

	out := exportedDraft{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, g := range gens {
		out.Generations = append(out.Generations, exportedGeneration{
			Kind:      g.Kind,
			Input:     g.Input,
			Output:    g.Output,
			CreatedAt: g.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal draft: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		path = d.ID + ".json"
	}
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// inkwell - a terminal drafting pad with streaming AI assistance.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/inkwell-tui/inkwell/internal/assist"
	"github.com/inkwell-tui/inkwell/internal/autosave"
	"github.com/inkwell-tui/inkwell/internal/config"
	"github.com/inkwell-tui/inkwell/internal/document"
	"github.com/inkwell-tui/inkwell/internal/gateway"
	"github.com/inkwell-tui/inkwell/internal/preview"
	"github.com/inkwell-tui/inkwell/internal/storage"
	"github.com/inkwell-tui/inkwell/internal/stream"
	"github.com/inkwell-tui/inkwell/internal/ui/components"
	"github.com/inkwell-tui/inkwell/internal/ui/editor"
	"github.com/inkwell-tui/inkwell/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func program() *tea.Program {
	programMu.Lock()
	defer programMu.Unlock()
	return programRef
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("inkwell %s (%s, %s)\n", Version, GitCommit, BuildDate)
			return
		case "list":
			handleList()
			return
		case "delete":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "usage: inkwell delete <draft-id>")
				os.Exit(1)
			}
			handleDelete(args[1])
			return
		case "export":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "usage: inkwell export <draft-id> [path]")
				os.Exit(1)
			}
			path := ""
			if len(args) > 2 {
				path = args[2]
			}
			handleExport(args[1], path)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	draftID := ""
	if len(args) > 0 {
		draftID = args[0]
	}
	runTUI(draftID)
}

func printUsage() {
	fmt.Println(`inkwell - terminal drafting pad with AI assistance

Usage:
  inkwell              open a new draft
  inkwell <draft-id>   open an existing draft
  inkwell list         list saved drafts
  inkwell delete <id>  delete a draft
  inkwell export <id> [path]
                       export a draft and its history as JSON
  inkwell version      print version`)
}

// runTUI starts the drafting interface.
func runTUI(draftID string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "inkwell needs an interactive terminal")
		os.Exit(1)
	}

	cfg := config.Global()
	theme := styles.NewTheme()

	client := gateway.NewClientWithConfig(&gateway.ClientConfig{
		BaseURL: cfg.Gateway.URL,
		APIKey:  cfg.Gateway.APIKey,
		Model:   cfg.Gateway.Model,
		Timeout: time.Duration(cfg.Gateway.TimeoutSecs) * time.Second,
	})

	// Draft persistence is best effort; the editor works without it.
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	draft := &storage.Draft{ID: draftID}
	if store != nil && draftID != "" {
		loaded, err := store.Load(context.Background(), draftID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		draft = loaded
	}

	doc := document.NewWithText(draft.Content)
	pstore := preview.NewStore()
	toasts := components.NewToastManager()

	var saver *autosave.Saver
	if store != nil {
		debounce := time.Duration(cfg.Storage.AutosaveDebounceMs) * time.Millisecond
		saver = autosave.New(debounce, func(content string) {
			draft.Content = content
			if _, err := store.Save(context.Background(), draft); err != nil {
				p := program()
				if p != nil {
					p.Send(editor.SaveDoneMsg{DraftID: draft.ID, Err: err})
				}
			}
		})
		defer saver.Stop()
	}

	var record assist.Recorder
	if store != nil {
		record = func(kind, input, output string) {
			if draft.ID == "" {
				return
			}
			_ = store.RecordGeneration(context.Background(), draft.ID, kind, input, output)
		}
	}

	orch := assist.New(doc, client, pstore, assist.Config{
		MaxInputRunes: cfg.Assist.MaxInputChars,
		Notify:        func(msg string) { toasts.AddError(msg) },
		Emit: func(e stream.Event) {
			p := program()
			if p != nil {
				p.Send(editor.StreamEventMsg{Event: e})
			}
		},
		Record: record,
	})

	m := editor.New(editor.Deps{
		Theme:        theme,
		Doc:          doc,
		Store:        pstore,
		Orchestrator: orch,
		Saver:        saver,
		Toasts:       toasts,
		DraftTitle:   draft.Title,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running inkwell: %v\n", err)
		os.Exit(1)
	}

	if saver != nil {
		saver.Flush()
	}
}

// openStore opens the draft database, reporting failures without aborting.
func openStore(cfg *config.Config) *storage.DraftStore {
	dir := cfg.Storage.Dir
	if dir == "" {
		var err error
		dir, err = config.ConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: drafts will not be saved: %v\n", err)
			return nil
		}
	}
	store, err := storage.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: drafts will not be saved: %v\n", err)
		return nil
	}
	store.MaxGenerations = cfg.Storage.MaxGenerations
	return store
}

func handleList() {
	store := openStore(config.Global())
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	metas, err := store.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(metas) == 0 {
		fmt.Println("No drafts yet.")
		return
	}
	for _, m := range metas {
		fmt.Printf("%-22s %-19s %s\n", m.ID, m.UpdatedAt.Format("2006-01-02 15:04:05"), m.Preview)
	}
}

func handleDelete(id string) {
	store := openStore(config.Global())
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Delete(context.Background(), id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", id)
}

func handleExport(id, path string) {
	store := openStore(config.Global())
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	written, err := store.ExportJSON(context.Background(), id, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s to %s\n", id, written)
}

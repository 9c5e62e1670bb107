// Command farmsim is the terminal client for the farm activity simulator.
// It starts a live session against a cropline server and renders the farm
// grid in the terminal, or spectates an existing session with --watch.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	remotefarmers "cropline/internal/adapter/farmers/remote"
	kvmemory "cropline/internal/adapter/kv/memory"
	kvsqlite "cropline/internal/adapter/kv/sqlite"
	"cropline/internal/adapter/simapi"
	"cropline/internal/app/ports"
	"cropline/internal/config"
	"cropline/internal/tui"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	serverURL := flag.String("server", "", "server base URL (default CROPLINE_SERVER_URL or "+defaultServerURL+")")
	farmerID := flag.String("farmer", "", "start a session for this farmer id, skipping the picker")
	watchID := flag.String("watch", "", "spectate an existing session instead of playing")
	flag.Parse()

	cfg := config.Load()
	base := *serverURL
	if base == "" {
		base = cfg.ServerURL
	}
	if base == "" {
		base = defaultServerURL
	}

	opts := tui.Options{
		Client:         simapi.Client{BaseURL: base},
		KV:             openKV(),
		FarmerID:       *farmerID,
		WatchSessionID: *watchID,
	}
	// The farmer directory is operator-only; without credentials the picker
	// falls back to manual entry.
	if cfg.OperatorID != "" {
		opts.Farmers = &remotefarmers.Client{
			BaseURL:     base,
			OperatorID:  cfg.OperatorID,
			OperatorKey: cfg.OperatorKey,
		}
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openKV prefers a SQLite file under the user's home directory and falls
// back to process memory when that is unavailable.
func openKV() ports.KVStore {
	home, err := os.UserHomeDir()
	if err != nil {
		return kvmemory.NewStore()
	}
	dir := filepath.Join(home, ".cropline")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return kvmemory.NewStore()
	}
	store, err := kvsqlite.Open(filepath.Join(dir, "cropline.db"))
	if err != nil {
		return kvmemory.NewStore()
	}
	return store
}

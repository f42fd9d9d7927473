// querydeck is a terminal console for browsing the search requests held by
// a companion search service: page through them, narrow by status, export
// finished results, and pin interesting ones locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"querydeck/internal/api"
	"querydeck/internal/browse"
	"querydeck/internal/config"
	"querydeck/internal/export"
	"querydeck/internal/logging"
	"querydeck/internal/pins"
	"querydeck/internal/querystate"
	"querydeck/internal/telemetry"
	"querydeck/internal/ui"
)

func main() {
	var (
		serverFlag = flag.String("server", "", "search service base URL (overrides config)")
		viewFlag   = flag.String("view", "", "query string for the initial view, e.g. \"status=finished\"")
		dataFlag   = flag.String("data", "", "data directory (default ~/.querydeck)")
	)
	flag.Parse()

	dataDir := *dataFlag
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			fatal("Failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".querydeck")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	cfg, err := config.Load(dataDir)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if *serverFlag != "" {
		cfg.Server.BaseURL = *serverFlag
	}

	pinStore, err := pins.Open(filepath.Join(dataDir, "querydeck.db"))
	if err != nil {
		fatal("Failed to open pin store: %v", err)
	}
	defer pinStore.Close()

	if flag.Arg(0) == "pins" {
		// Store-reading subcommand; no TUI, no server.
		listPins(pinStore, cfg)
		return
	}

	// Telemetry: JSONL event log plus the ring behind the debug overlay.
	ring := telemetry.NewRing(telemetry.DefaultRingSize)
	eventFile, err := os.OpenFile(filepath.Join(dataDir, "events.jsonl"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	var events *telemetry.Logger
	if err != nil {
		logging.Warn("Event log unavailable", "error", err)
		events = telemetry.NewNullLogger()
	} else {
		events = telemetry.NewLogger(eventFile, ring)
		defer eventFile.Close()
	}
	defer events.Close()
	events.Emit(telemetry.Event{Kind: telemetry.KindStartup})
	defer events.Emit(telemetry.Event{Kind: telemetry.KindShutdown})

	queries, err := querystate.NewFileStore(filepath.Join(dataDir, "view.query"))
	if err != nil {
		fatal("Failed to open query state: %v", err)
	}
	if *viewFlag != "" {
		// A pasted view link replaces the remembered one.
		q, err := url.ParseQuery(*viewFlag)
		if err != nil {
			fatal("Invalid -view query string: %v", err)
		}
		if err := queries.Set(q); err != nil {
			fatal("Failed to store view state: %v", err)
		}
	}

	client := api.NewClient(cfg.Server.BaseURL, cfg.Timeout())
	ctrl := browse.NewController(queries, logNotifier{}, logNavigator{})

	saver := export.DirSaver{Dir: cfg.Exports.Dir}

	app := ui.NewApp(ui.AppConfig{
		Controller: ctrl,
		Ring:       ring,
		Events:     events,
		DateFormat: cfg.UI.DateFormat,

		RunFetch: func(f browse.Fetch) tea.Cmd {
			events.Emit(telemetry.Event{
				Kind:   telemetry.KindFetchStart,
				Gen:    f.Gen,
				Page:   f.Page,
				Filter: string(f.Filter),
			})
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
				defer cancel()
				page, err := client.List(ctx, f.Page, f.Filter)
				return ui.PageLoaded{Gen: f.Gen, Page: page, Err: err}
			}
		},

		Export: func(rec api.SearchRequest) tea.Cmd {
			return func() tea.Msg {
				name, data := export.Project(rec)
				path, err := saver.Save(name, data)
				if err == nil {
					events.Emit(telemetry.Event{Kind: telemetry.KindExportWrite, RecordID: rec.ID})
				}
				return ui.ExportDone{RecordID: rec.ID, Path: path, Err: err}
			}
		},

		TogglePin: func(rec api.SearchRequest) tea.Cmd {
			return func() tea.Msg {
				pinned, err := pinStore.Has(rec.ID)
				if err != nil {
					return ui.PinToggled{RecordID: rec.ID, Err: err}
				}
				if pinned {
					err = pinStore.Unpin(rec.ID)
					events.Emit(telemetry.Event{Kind: telemetry.KindPinRemove, RecordID: rec.ID})
					return ui.PinToggled{RecordID: rec.ID, Pinned: false, Err: err}
				}
				_, err = pinStore.Pin(rec)
				events.Emit(telemetry.Event{Kind: telemetry.KindPinAdd, RecordID: rec.ID})
				return ui.PinToggled{RecordID: rec.ID, Pinned: true, Err: err}
			}
		},
	})

	logging.Info("querydeck starting", "server", cfg.Server.BaseURL, "session", events.SessionID())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		fatal("Error: %v", err)
	}

	logging.Info("querydeck exiting normally")
}

// logNotifier reports accepted fetch failures. Presentation of the
// failure itself lives in the view's error bar; this is the out-of-band
// record.
type logNotifier struct{}

func (logNotifier) FetchFailed(err error) {
	logging.Warn("Fetch failed", "error", err)
}

// logNavigator stands in for a detail screen. Detail rendering lives in
// the companion service's web UI; the console only records the intent.
type logNavigator struct{}

func (logNavigator) GoToDetail(id string) {
	logging.Info("Open detail", "id", id)
}

// listPins prints the pinned records to stdout.
func listPins(st *pins.Store, cfg *config.Config) {
	all, err := st.List()
	if err != nil {
		fatal("Failed to list pins: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No pinned search requests.")
		return
	}
	for _, p := range all {
		created := "—"
		if p.Record.CreatedAt != nil {
			created = p.Record.CreatedAt.Format(cfg.UI.DateFormat)
		}
		fmt.Printf("%-12s %-10s %-18s %s\n", p.Record.ID, p.Record.Status, created, p.Record.Query)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"querydeck/internal/api"
	"querydeck/internal/browse"
	"querydeck/internal/telemetry"
)

// AppConfig wires the App's collaborators. The App holds command
// constructors, never the HTTP client or the stores themselves: every
// side effect runs inside a tea.Cmd and comes back as a message.
type AppConfig struct {
	Controller *browse.Controller

	// RunFetch executes a list fetch and delivers a PageLoaded.
	RunFetch func(browse.Fetch) tea.Cmd
	// Export writes a finished record's result and delivers an ExportDone.
	Export func(api.SearchRequest) tea.Cmd
	// TogglePin flips a record's bookmark and delivers a PinToggled.
	TogglePin func(api.SearchRequest) tea.Cmd

	// Ring backs the debug overlay. Optional.
	Ring *telemetry.Ring
	// Events records fetch outcomes, including superseded ones that are
	// otherwise invisible. Optional.
	Events *telemetry.Logger

	DateFormat string
}

// App is the root Bubble Tea model. All controller calls happen on the
// Bubble Tea event loop, which is the single goroutine the controller
// requires.
type App struct {
	cfg    AppConfig
	spin   spinner.Model
	cursor int
	width  int
	height int
	ready  bool
	debug  bool
	flash  string
}

// NewApp creates the root model.
func NewApp(cfg AppConfig) App {
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02 15:04"
	}
	return App{
		cfg:  cfg,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init issues the initial fetch for the restored (page, filter) view.
func (a App) Init() tea.Cmd {
	fetch := a.cfg.Controller.Refresh()
	return tea.Batch(a.cfg.RunFetch(fetch), a.spin.Tick)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case PageLoaded:
		accepted := a.cfg.Controller.Resolve(msg.Gen, msg.Page, msg.Err)
		a.recordOutcome(msg, accepted)
		if accepted && msg.Err == nil {
			a.clampCursor()
		}
		return a, nil

	case ExportDone:
		if msg.Err != nil {
			a.flash = "export failed: " + msg.Err.Error()
		} else {
			a.flash = "exported " + msg.Path
		}
		return a, nil

	case PinToggled:
		switch {
		case msg.Err != nil:
			a.flash = "pin failed: " + msg.Err.Error()
		case msg.Pinned:
			a.flash = "pinned " + msg.RecordID
		default:
			a.flash = "unpinned " + msg.RecordID
		}
		return a, nil
	}

	return a, nil
}

// handleKey processes keyboard input.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.flash = ""
	st := a.cfg.Controller.State()

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if st.Result != nil && a.cursor < len(st.Result.Items)-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "l", "right":
		if st.Result != nil && st.Result.HasNext {
			fetch, err := a.cfg.Controller.SetPage(st.Page + 1)
			if err == nil {
				a.cursor = 0
				return a, a.cfg.RunFetch(fetch)
			}
		}
		return a, nil

	case "h", "left":
		if st.Page > 1 {
			fetch, err := a.cfg.Controller.SetPage(st.Page - 1)
			if err == nil {
				a.cursor = 0
				return a, a.cfg.RunFetch(fetch)
			}
		}
		return a, nil

	case "f":
		fetch := a.cfg.Controller.SetFilter(nextFilter(st.Filter))
		a.cursor = 0
		return a, a.cfg.RunFetch(fetch)

	case "r":
		return a, a.cfg.RunFetch(a.cfg.Controller.Refresh())

	case "enter":
		if rec, ok := a.current(); ok {
			a.cfg.Controller.OpenDetail(rec.ID)
		}
		return a, nil

	case "x":
		// Export is only defined for finished requests; the key is inert
		// on everything else.
		if rec, ok := a.current(); ok && rec.Status == api.StatusFinished {
			return a, a.cfg.Export(rec)
		}
		return a, nil

	case "s":
		if rec, ok := a.current(); ok {
			return a, a.cfg.TogglePin(rec)
		}
		return a, nil

	case "d":
		a.debug = !a.debug
		return a, nil
	}

	return a, nil
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	st := a.cfg.Controller.State()

	// Reserve one line for the status bar and one for a flash/error bar.
	contentHeight := a.height - 1
	barText := ""
	switch {
	case st.Err != nil:
		barText = ErrorStyle.Width(a.width).Render("Error: " + st.Err.Error() + " (r to retry)")
	case a.flash != "":
		barText = FlashStyle.Width(a.width).Render(a.flash)
	}
	if barText != "" {
		contentHeight--
	}

	var content string
	if a.debug {
		content = debugOverlay(a.cfg.Ring, a.width, contentHeight)
	} else {
		content = RenderList(st, a.cursor, a.width, contentHeight, a.cfg.DateFormat)
	}

	out := content
	if barText != "" {
		out += barText + "\n"
	}
	return out + RenderStatusBar(st, a.spin.View(), a.width)
}

// recordOutcome emits the telemetry event for a settled fetch.
func (a App) recordOutcome(msg PageLoaded, accepted bool) {
	if a.cfg.Events == nil {
		return
	}
	e := telemetry.Event{Gen: msg.Gen}
	switch {
	case !accepted:
		e.Kind = telemetry.KindFetchSupersede
	case msg.Err != nil:
		e.Kind = telemetry.KindFetchError
		e.Err = msg.Err.Error()
	default:
		e.Kind = telemetry.KindFetchAccept
		e.Count = len(msg.Page.Items)
	}
	a.cfg.Events.Emit(e)
}

// current returns the record under the cursor.
func (a App) current() (api.SearchRequest, bool) {
	st := a.cfg.Controller.State()
	if st.Result == nil || a.cursor >= len(st.Result.Items) {
		return api.SearchRequest{}, false
	}
	return st.Result.Items[a.cursor], true
}

// clampCursor keeps the cursor inside the freshly loaded page.
func (a *App) clampCursor() {
	st := a.cfg.Controller.State()
	if st.Result == nil || len(st.Result.Items) == 0 {
		a.cursor = 0
		return
	}
	if a.cursor >= len(st.Result.Items) {
		a.cursor = len(st.Result.Items) - 1
	}
}

// nextFilter cycles all -> new -> running -> finished -> canceled -> all.
func nextFilter(f api.Status) api.Status {
	order := []api.Status{api.StatusAny, api.StatusNew, api.StatusRunning, api.StatusFinished, api.StatusCanceled}
	for i, s := range order {
		if s == f {
			return order[(i+1)%len(order)]
		}
	}
	return api.StatusAny
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int { return a.cursor }

// Flash returns the transient message line (for testing).
func (a App) Flash() string { return a.flash }

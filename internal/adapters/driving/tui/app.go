package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/views/analyze"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	dashboardView *dashboard.View
	analyzeView   *analyze.View
	historyView   *history.View

	// updates carries session views from the controller's goroutines into
	// the program loop. It holds at most the latest view.
	updates     chan domain.SessionView
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// The app subscribes to session updates until Close is called.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	h := help.New()
	h.ShowAll = true

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          h,
		dashboardView: dashboard.NewView(s, km, ports.Session, ports.Scanner),
		analyzeView:   analyze.NewView(s, km, ports.Analyzer),
		historyView:   history.NewView(s, km, ports.History),
		updates:       make(chan domain.SessionView, 1),
		done:          make(chan struct{}),
		currentView:   messages.ViewDashboard,
	}
	a.unsubscribe = ports.Session.Subscribe(a.push)
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.dashboardView.WithContext(ctx)
	a.analyzeView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// push keeps only the newest view so a slow UI never blocks the controller.
func (a *App) push(view domain.SessionView) {
	for {
		select {
		case a.updates <- view:
			return
		default:
		}
		select {
		case <-a.updates:
		default:
		}
	}
}

// listen waits for the next session view.
func (a *App) listen() tea.Cmd {
	updates, done := a.updates, a.done
	return func() tea.Msg {
		select {
		case view := <-updates:
			return messages.SessionUpdated{View: view}
		case <-done:
			return nil
		}
	}
}

// Close stops following session updates.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.unsubscribe()
		close(a.done)
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("focuscoach"),
		a.dashboardView.Init(),
		a.listen(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewAnalyze:
			return a, a.analyzeView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewDashboard, messages.ViewHelp:
		}
		return a, nil

	case messages.SessionUpdated:
		a.dashboardView, _ = a.dashboardView.Update(msg)
		a.analyzeView, _ = a.analyzeView.Update(msg)
		return a, a.listen()

	case messages.SessionChanged, messages.ScanCompleted:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		return a, cmd

	case messages.AnalysisRequested, messages.AnalysisCompleted:
		a.analyzeView, cmd = a.analyzeView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case messages.ViewAnalyze:
		a.analyzeView, cmd = a.analyzeView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok {
			if keymap.Matches(k.String(), a.keymap.Back) || keymap.Matches(k.String(), a.keymap.Help) {
				a.currentView = messages.ViewDashboard
			}
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAnalyze:
		return a.analyzeView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.dashboardView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.View(a.keymap))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("While focus is on, pages and videos are scored against your goal."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.dashboardView.SetDimensions(width, height)
	a.analyzeView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
}

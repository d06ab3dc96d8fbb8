// Package history provides the recent evaluations view for the TUI.
package history

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

// DefaultLimit is the number of evaluations loaded.
const DefaultLimit = 50

var errNoHistory = errors.New("history not available")

// View lists recent evaluations.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.EvaluationList
	statusbar *status.Bar

	history driving.HistoryService
	ctx     context.Context

	width  int
	height int
	ready  bool
}

// NewView creates a history view. The history service may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewEvaluationList(s),
		statusbar: status.NewBar(s, km),
		history:   history,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for history reads.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the most recent evaluations.
func (v *View) Init() tea.Cmd {
	history, ctx := v.history, v.ctx
	if history == nil {
		return func() tea.Msg {
			return messages.HistoryLoaded{Err: errNoHistory}
		}
	}
	v.statusbar.Set(status.StateWorking, "loading")
	return func() tea.Msg {
		evals, err := history.Evaluations(ctx, DefaultLimit)
		return messages.HistoryLoaded{Evaluations: evals, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.statusbar.Set(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.list.SetEvaluations(msg.Evaluations)
		v.statusbar.Clear()
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDashboard}
			}
		case keymap.Matches(key, v.keymap.Quit):
			return v, tea.Quit
		case key == "r":
			return v, v.Init()
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the history view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [r] Reload  [esc] Back"))
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// List returns the evaluation list component.
func (v *View) List() *list.EvaluationList {
	return v.list
}

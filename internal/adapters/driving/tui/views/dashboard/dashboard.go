// Package dashboard provides the home view: the focus banner, goal editing
// and session controls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

var errNoScanner = errors.New("listing scanner not configured")

// View shows the session banner and handles session keys.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	goal      *input.Field
	statusbar *status.Bar

	session driving.SessionService
	scanner driving.Scanner
	ctx     context.Context

	current domain.SessionView
	report  *domain.ScanReport

	width   int
	height  int
	ready   bool
	editing bool
}

// NewView creates a dashboard view. The scanner may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionService,
	scanner driving.Scanner,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		goal:      input.NewField(s, "Goal", "what are you working on?"),
		statusbar: status.NewBar(s, km),
		session:   session,
		scanner:   scanner,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	if session != nil {
		v.current = session.Snapshot()
	}
	return v
}

// WithContext sets the context for session and scan calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditingKey(msg)
		}
		return v.handleKey(msg)

	case messages.SessionUpdated:
		v.current = msg.View
		v.statusbar.SetSession(msg.View)
		return v, nil

	case messages.SessionChanged:
		v.current = msg.View
		v.statusbar.SetSession(msg.View)
		if msg.Err != nil {
			v.statusbar.Set(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.statusbar.Set(status.StateReady, describe(msg.View))
		return v, nil

	case messages.ScanCompleted:
		if msg.Err != nil {
			v.statusbar.Set(status.StateError, msg.Err.Error())
			return v, nil
		}
		report := msg.Report
		v.report = &report
		v.statusbar.Set(status.StateReady, "scan complete")
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.Set(status.StateError, msg.Err.Error())
		return v, nil
	}

	if v.editing {
		var cmd tea.Cmd
		v.goal, cmd = v.goal.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleEditingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel are special
	case tea.KeyEsc:
		v.stopEditing()
		v.statusbar.Clear()
		return v, nil
	case tea.KeyEnter:
		goal := strings.TrimSpace(v.goal.Value())
		v.stopEditing()
		v.statusbar.Set(status.StateWorking, "saving goal")
		return v, v.setGoal(goal)
	}

	var cmd tea.Cmd
	v.goal, cmd = v.goal.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(key, v.keymap.ToggleFocus):
		v.statusbar.Set(status.StateWorking, "")
		return v, v.toggle()

	case keymap.Matches(key, v.keymap.EditGoal):
		v.editing = true
		v.goal.SetValue(v.current.Goal)
		v.statusbar.SetState(status.StateEditing)
		return v, v.goal.Focus()

	case keymap.Matches(key, v.keymap.Scan):
		if v.scanner == nil {
			v.statusbar.Set(status.StateError, errNoScanner.Error())
			return v, nil
		}
		v.statusbar.Set(status.StateWorking, "scanning listing")
		return v, v.scan()

	case keymap.Matches(key, v.keymap.Analyze):
		return v, changeView(messages.ViewAnalyze)

	case keymap.Matches(key, v.keymap.History):
		return v, changeView(messages.ViewHistory)

	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	}
	return v, nil
}

func (v *View) stopEditing() {
	v.editing = false
	v.goal.Blur()
}

func (v *View) toggle() tea.Cmd {
	session, ctx, on := v.session, v.ctx, v.current.FocusMode
	return func() tea.Msg {
		var (
			view domain.SessionView
			err  error
		)
		if on {
			view, err = session.Disable(ctx)
		} else {
			view, err = session.Enable(ctx, "", 0)
		}
		return messages.SessionChanged{View: view, Err: err}
	}
}

func (v *View) setGoal(goal string) tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		view, err := session.SetGoal(ctx, goal)
		return messages.SessionChanged{View: view, Err: err}
	}
}

func (v *View) scan() tea.Cmd {
	scanner, ctx := v.scanner, v.ctx
	return func() tea.Msg {
		report, err := scanner.Scan(ctx)
		return messages.ScanCompleted{Report: report, Err: err}
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("FocusCoach"))
	b.WriteString("\n\n")
	b.WriteString(v.renderBanner())
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.goal.View())
		b.WriteString("\n\n")
	}

	if v.report != nil {
		b.WriteString(v.styles.Muted.Render(formatReport(*v.report)))
		b.WriteString("\n\n")
	}

	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderBanner() string {
	var state string
	switch v.current.State {
	case domain.SessionActive:
		state = v.styles.Success.Render("● Focus on")
		if remaining := v.current.Display(); remaining != "" {
			state += "  " + v.styles.Countdown.Render(remaining)
		}
	case domain.SessionExpired:
		state = v.styles.Warning.Render("◌ Session ended")
	default:
		state = v.styles.Muted.Render("○ Focus off")
	}

	goal := v.styles.Muted.Render("No goal set. Press g to add one.")
	if v.current.Goal != "" {
		goal = v.styles.Normal.Render("Goal: " + v.current.Goal)
	}

	return v.styles.Banner(v.current.State).Render(state + "\n" + goal)
}

func describe(view domain.SessionView) string {
	switch view.State {
	case domain.SessionActive:
		return "focus on"
	case domain.SessionExpired:
		return "session ended"
	default:
		return "focus off"
	}
}

func formatReport(r domain.ScanReport) string {
	if r.Skipped != "" {
		return "Last scan skipped: " + r.Skipped
	}
	return fmt.Sprintf("Last scan: %d seen, %d scored, %d blurred, %d deferred",
		r.Seen, r.Evaluated, r.Blurred, r.Deferred)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.goal.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Session returns the session view currently displayed.
func (v *View) Session() domain.SessionView {
	return v.current
}

// Editing reports whether the goal field has focus.
func (v *View) Editing() bool {
	return v.editing
}

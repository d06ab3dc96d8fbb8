// Package status renders the bottom line of every TUI view: the outcome of
// the last action, the focus session countdown and key hints.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// State is what the left segment reports.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateEditing State = "editing"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar is the status line. It is not safe for concurrent use; bubbletea
// drives it from a single goroutine.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	text    string
	session domain.SessionView
	width   int
}

// NewBar returns a bar in StateReady. Nil arguments take the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View lays out message, session and hints. The hints are the first thing
// dropped when the line is too narrow.
func (s *Bar) View() string {
	left := s.left()
	if timer := s.timer(); timer != "" {
		left += "  " + timer
	}
	right := s.hints()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right, gap = "", 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) left() string {
	msg := s.text
	switch s.state {
	case StateWorking:
		if msg == "" {
			msg = "Working..."
		}
		return s.styles.Muted.Render(msg)
	case StateError:
		if msg == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + msg)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	}
	if msg == "" {
		return s.styles.Muted.Render("Ready")
	}
	return s.styles.Normal.Render(msg)
}

// timer is the countdown of an active session, or a marker once it ended.
func (s *Bar) timer() string {
	switch s.session.State {
	case domain.SessionActive:
		if d := s.session.Display(); d != "" {
			return s.styles.Success.Render("● " + d)
		}
		return s.styles.Success.Render("●")
	case domain.SessionExpired:
		return s.styles.Warning.Render("○ ended")
	}
	return ""
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateEditing {
		bindings = s.keymap.EditingHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, hint(b))
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState changes the state and keeps the message.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the current state.
func (s *Bar) State() State { return s.state }

// SetMessage changes the message and keeps the state.
func (s *Bar) SetMessage(message string) { s.text = message }

// Message returns the current message.
func (s *Bar) Message() string { return s.text }

// Set updates state and message together.
func (s *Bar) Set(state State, message string) {
	s.state = state
	s.text = message
}

// SetSession replaces the session shown next to the message.
func (s *Bar) SetSession(view domain.SessionView) { s.session = view }

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the rendered width.
func (s *Bar) Width() int { return s.width }

// Clear drops the message and returns to StateReady. The session stays.
func (s *Bar) Clear() {
	s.state = StateReady
	s.text = ""
}

// Package analyze provides the page analysis view for the TUI.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

const barWidth = 20

// View asks for a page location and shows the analyzer's verdict.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	url       *input.Field
	statusbar *status.Bar

	analyzer driving.Analyzer
	ctx      context.Context

	reply   *domain.Message
	pending string

	width  int
	height int
	ready  bool
}

// NewView creates an analyze view.
func NewView(s *styles.Styles, km *keymap.KeyMap, analyzer driving.Analyzer) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		url:       input.NewField(s, "Page", "https://... or a local file"),
		statusbar: status.NewBar(s, km),
		analyzer:  analyzer,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for analysis calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the page field.
func (v *View) Init() tea.Cmd {
	v.statusbar.SetState(status.StateEditing)
	return v.url.Focus()
}

// Update handles messages for the analyze view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnalysisRequested:
		return v, v.analyze(msg.URL)

	case messages.AnalysisCompleted:
		v.pending = ""
		reply := msg.Reply
		v.reply = &reply
		if reply.Error != "" {
			v.statusbar.Set(status.StateError, reply.Error)
		} else {
			v.statusbar.Set(status.StateEditing, "")
		}
		return v, nil

	case messages.SessionUpdated:
		v.statusbar.SetSession(msg.View)
		return v, nil

	case messages.ErrorOccurred:
		v.pending = ""
		v.statusbar.Set(status.StateError, msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.url, cmd = v.url.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // other keys go to the field
	case tea.KeyEsc:
		v.url.Blur()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDashboard}
		}
	case tea.KeyCtrlC:
		return v, tea.Quit
	case tea.KeyEnter:
		location := strings.TrimSpace(v.url.Value())
		if location == "" || v.pending != "" {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.AnalysisRequested{URL: location}
		}
	}

	var cmd tea.Cmd
	v.url, cmd = v.url.Update(msg)
	return v, cmd
}

func (v *View) analyze(location string) tea.Cmd {
	if v.analyzer == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: errors.New("analyzer not configured")}
		}
	}

	v.pending = location
	v.reply = nil
	v.statusbar.Set(status.StateWorking, "analysing "+location)

	analyzer, ctx := v.analyzer, v.ctx
	req := domain.Message{
		Type: domain.MessageAnalyze,
		ID:   uuid.NewString(),
		URL:  location,
	}
	return func() tea.Msg {
		return messages.AnalysisCompleted{Reply: analyzer.Handle(ctx, req)}
	}
}

// View renders the analyze view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Analyze page"))
	b.WriteString("\n\n")
	b.WriteString(v.url.View())
	b.WriteString("\n\n")

	if v.reply != nil && v.reply.Error == "" {
		b.WriteString(v.renderVerdict(v.reply))
		b.WriteString("\n\n")
	}

	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderVerdict(r *domain.Message) string {
	lines := make([]string, 0, 4)
	if r.Title != "" {
		lines = append(lines, v.styles.Subtitle.Render(r.Title))
	}

	verdict := v.styles.Verdict(r.Recommendation)
	filled := domain.ClampScore(r.Relevance) * barWidth / 100
	bar := verdict.Render(strings.Repeat("█", filled)) +
		v.styles.Muted.Render(strings.Repeat("░", barWidth-filled))
	lines = append(lines,
		fmt.Sprintf("%s %3d%%  %s", bar, r.Relevance, verdict.Bold(true).Render(string(r.Recommendation))))

	if r.Summary != "" {
		wrap := v.width - 4
		if wrap < 20 {
			wrap = 20
		}
		lines = append(lines, "", v.styles.Normal.Width(wrap).Render(r.Summary))
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.url.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reply returns the last analyzer reply, or nil.
func (v *View) Reply() *domain.Message {
	return v.reply
}

// Pending returns the location being analysed, or "".
func (v *View) Pending() string {
	return v.pending
}

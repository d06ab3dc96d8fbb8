// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// EvaluationList displays scored pages and videos in a navigable list.
type EvaluationList struct {
	evals    []domain.Evaluation
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEvaluationList creates an empty list.
func NewEvaluationList(s *styles.Styles) *EvaluationList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &EvaluationList{styles: s, width: 80, height: 10}
}

// Update handles list navigation messages.
func (l *EvaluationList) Update(msg tea.Msg) (*EvaluationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *EvaluationList) View() string {
	if len(l.evals) == 0 {
		return l.styles.Muted.Render("Nothing scored yet")
	}

	lines := make([]string, 0, len(l.evals)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Recent (%d)", len(l.evals))), "")

	// Two lines per entry.
	visible := (l.height - 4) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.evals) {
		end = len(l.evals)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.evals[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *EvaluationList) renderEntry(index int, e *domain.Evaluation) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := e.Title
	if title == "" {
		title = e.URL
	}
	if title == "" {
		title = "(Untitled)"
	}
	maxTitle := l.width - 20
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = clip(title, maxTitle)

	verdict := fmt.Sprintf("%3d %-4s", e.Result.Relevance, e.Result.Recommendation)
	var first string
	if index == l.selected {
		first = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, verdict))
	} else {
		first = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
			l.styles.Verdict(e.Result.Recommendation).Render(verdict)
	}

	detail := fmt.Sprintf("    %s · %s · %s", e.Kind, e.Result.Source, e.CreatedAt.Format("Jan 2 15:04"))
	if e.Result.Summary != "" {
		detail += " · " + e.Result.Summary
	}
	maxDetail := l.width - 2
	if maxDetail < 20 {
		maxDetail = 20
	}
	return first + "\n" + l.styles.Muted.Render(clip(detail, maxDetail))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetEvaluations replaces the entries and resets the selection.
func (l *EvaluationList) SetEvaluations(evals []domain.Evaluation) {
	l.evals = evals
	l.selected = 0
}

// Evaluations returns the current entries.
func (l *EvaluationList) Evaluations() []domain.Evaluation {
	return l.evals
}

// Selected returns the index of the selected entry.
func (l *EvaluationList) Selected() int {
	return l.selected
}

// SelectedEvaluation returns the selected entry, or nil if none.
func (l *EvaluationList) SelectedEvaluation() *domain.Evaluation {
	if l.selected < 0 || l.selected >= len(l.evals) {
		return nil
	}
	return &l.evals[l.selected]
}

// MoveUp moves selection up.
func (l *EvaluationList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EvaluationList) MoveDown() {
	if l.selected < len(l.evals)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EvaluationList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

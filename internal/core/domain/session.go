package domain

import (
	"fmt"
	"time"
)

// Keys of the shared focus state. They match the keys written by the
// browser popup so both sides can share one store.
const (
	KeyUserGoal      = "userGoal"
	KeyFocusMode     = "focusMode"
	KeyFocusEndAt    = "focusEndAt"
	KeyFocusDuration = "focusDuration"
)

// DefaultFocusMinutes is the session length when none is configured.
const DefaultFocusMinutes = 30

// FocusState is the persisted, externally owned focus state.
type FocusState struct {
	// Goal is the user-declared goal.
	Goal string

	// FocusMode is true while focus mode is switched on.
	FocusMode bool

	// EndAt is when the running session ends. Nil when no session is scheduled.
	EndAt *time.Time

	// DurationMinutes is the session length used when a session starts.
	// Zero means DefaultFocusMinutes.
	DurationMinutes int
}

// Duration returns the configured session length.
func (s FocusState) Duration() time.Duration {
	mins := s.DurationMinutes
	if mins <= 0 {
		mins = DefaultFocusMinutes
	}
	return time.Duration(mins) * time.Minute
}

// HasValidEnd returns true if an end time is set and lies after now.
func (s FocusState) HasValidEnd(now time.Time) bool {
	return s.EndAt != nil && s.EndAt.After(now)
}

// StatePatch is a partial update of FocusState. Nil fields are left unchanged.
type StatePatch struct {
	Goal            *string
	FocusMode       *bool
	DurationMinutes *int

	// EndAt sets the end time when non-nil.
	EndAt *time.Time

	// ClearEndAt removes the end time. Takes precedence over EndAt.
	ClearEndAt bool
}

// Keys returns the state keys touched by the patch.
func (p StatePatch) Keys() []string {
	var keys []string
	if p.Goal != nil {
		keys = append(keys, KeyUserGoal)
	}
	if p.FocusMode != nil {
		keys = append(keys, KeyFocusMode)
	}
	if p.EndAt != nil || p.ClearEndAt {
		keys = append(keys, KeyFocusEndAt)
	}
	if p.DurationMinutes != nil {
		keys = append(keys, KeyFocusDuration)
	}
	return keys
}

// Apply returns a copy of s with the patch applied.
func (p StatePatch) Apply(s FocusState) FocusState {
	if p.Goal != nil {
		s.Goal = *p.Goal
	}
	if p.FocusMode != nil {
		s.FocusMode = *p.FocusMode
	}
	if p.DurationMinutes != nil {
		s.DurationMinutes = *p.DurationMinutes
	}
	if p.ClearEndAt {
		s.EndAt = nil
	} else if p.EndAt != nil {
		end := *p.EndAt
		s.EndAt = &end
	}
	return s
}

// StateChange notifies that some keys of the focus state changed.
// Receivers re-read the full state rather than patching incrementally.
type StateChange struct {
	Keys []string
}

// Has returns true if key is among the changed keys.
func (c StateChange) Has(key string) bool {
	for _, k := range c.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// SessionState is the lifecycle state of a focus session.
type SessionState string

// Session lifecycle states.
const (
	SessionInactive SessionState = "inactive"
	SessionActive   SessionState = "active"
	SessionExpired  SessionState = "expired"
)

// SessionView is a point-in-time snapshot of the session for display.
type SessionView struct {
	State     SessionState  `json:"state"`
	Goal      string        `json:"goal"`
	FocusMode bool          `json:"focus_mode"`
	EndAt     *time.Time    `json:"end_at,omitempty"`
	Remaining time.Duration `json:"remaining"`
}

// Display returns the remaining time as MM:SS, or "" when no timer runs.
func (v SessionView) Display() string {
	if v.EndAt == nil || v.State != SessionActive {
		return ""
	}
	return FormatRemaining(v.Remaining)
}

// Enforcing returns true when content should be scored against the goal.
func (v SessionView) Enforcing() bool {
	return v.State == SessionActive && v.Goal != ""
}

// FormatRemaining formats a duration as MM:SS, floored at 00:00.
// Minutes are not wrapped into hours.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00"
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// SessionRecord is a persisted record of one focus session.
type SessionRecord struct {
	ID              string
	Goal            string
	StartedAt       time.Time
	EndsAt          time.Time
	EndedAt         *time.Time
	DurationMinutes int
}

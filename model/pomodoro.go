package model

import (
	"errors"
	"time"
)

type PomodoroMode string
type TimerStatus string

const (
	ModePomodoro   PomodoroMode = "pomodoro"
	ModeShortBreak PomodoroMode = "shortBreak"
	ModeLongBreak  PomodoroMode = "longBreak"

	StatusIdle    TimerStatus = "idle"
	StatusRunning TimerStatus = "running"
	StatusPaused  TimerStatus = "paused"

	DefaultFocusSeconds      = 25 * 60
	DefaultShortBreakSeconds = 5 * 60
	DefaultLongBreakSeconds  = 15 * 60
	DefaultLongBreakInterval = 4
)

var (
	ErrInvalidMode     = errors.New("invalid timer mode")
	ErrInvalidDuration = errors.New("durations must be between 1 and 180 minutes")
)

func (m PomodoroMode) Valid() bool {
	switch m {
	case ModePomodoro, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

type PomodoroState struct {
	UserID             string       `bson:"user_id" json:"user_id"`
	Mode               PomodoroMode `bson:"mode" json:"mode"`
	Status             TimerStatus  `bson:"status" json:"status"`
	RemainingSeconds   int          `bson:"remaining_seconds" json:"remaining_seconds"`
	EndsAt             *time.Time   `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	CompletedPomodoros int          `bson:"completed_pomodoros" json:"completed_pomodoros"`
	ActiveTaskID       string       `bson:"active_task_id,omitempty" json:"active_task_id,omitempty"`
	FocusSeconds       int          `bson:"focus_seconds" json:"focus_seconds"`
	ShortBreakSeconds  int          `bson:"short_break_seconds" json:"short_break_seconds"`
	LongBreakSeconds   int          `bson:"long_break_seconds" json:"long_break_seconds"`
	LongBreakInterval  int          `bson:"long_break_interval" json:"long_break_interval"`
	UpdatedAt          time.Time    `bson:"updated_at" json:"updated_at"`
}

// PomodoroSession is a finished focus interval.
type PomodoroSession struct {
	ID              string       `bson:"_id,omitempty" json:"id"`
	UserID          string       `bson:"user_id" json:"user_id"`
	TaskID          string       `bson:"task_id,omitempty" json:"task_id,omitempty"`
	Mode            PomodoroMode `bson:"mode" json:"mode"`
	DurationSeconds int          `bson:"duration_seconds" json:"duration_seconds"`
	CompletedAt     time.Time    `bson:"completed_at" json:"completed_at"`
}

func NewPomodoroState(userID string, now time.Time) *PomodoroState {
	return &PomodoroState{
		UserID:            userID,
		Mode:              ModePomodoro,
		Status:            StatusIdle,
		RemainingSeconds:  DefaultFocusSeconds,
		FocusSeconds:      DefaultFocusSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
		LongBreakInterval: DefaultLongBreakInterval,
		UpdatedAt:         now,
	}
}

func (s *PomodoroState) Duration(mode PomodoroMode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakSeconds
	case ModeLongBreak:
		return s.LongBreakSeconds
	default:
		return s.FocusSeconds
	}
}

// Remaining is derived from EndsAt while running so the countdown never
// drifts from wall-clock time.
func (s *PomodoroState) Remaining(now time.Time) int {
	if s.Status != StatusRunning || s.EndsAt == nil {
		return s.RemainingSeconds
	}
	left := s.EndsAt.Sub(now)
	if left <= 0 {
		return 0
	}
	// Partial seconds round up so a timer shows 0 only once it is due.
	return int((left + time.Second - 1) / time.Second)
}

// Due reports a running timer whose end has passed.
func (s *PomodoroState) Due(now time.Time) bool {
	return s.Status == StatusRunning && s.EndsAt != nil && !now.Before(*s.EndsAt)
}

func (s *PomodoroState) Start(now time.Time) {
	if s.Status == StatusRunning {
		return
	}
	if s.RemainingSeconds <= 0 {
		s.RemainingSeconds = s.Duration(s.Mode)
	}
	ends := now.Add(time.Duration(s.RemainingSeconds) * time.Second)
	s.EndsAt = &ends
	s.Status = StatusRunning
	s.UpdatedAt = now
}

func (s *PomodoroState) Pause(now time.Time) {
	if s.Status != StatusRunning {
		return
	}
	s.RemainingSeconds = s.Remaining(now)
	s.EndsAt = nil
	s.Status = StatusPaused
	s.UpdatedAt = now
}

func (s *PomodoroState) Reset(now time.Time) {
	s.RemainingSeconds = s.Duration(s.Mode)
	s.EndsAt = nil
	s.Status = StatusIdle
	s.UpdatedAt = now
}

func (s *PomodoroState) SwitchMode(mode PomodoroMode, now time.Time) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	s.Mode = mode
	s.Reset(now)
	return nil
}

// NextMode is the mode that follows the current one when it finishes. For a
// focus interval it expects CompletedPomodoros to already include it.
func (s *PomodoroState) NextMode() PomodoroMode {
	if s.Mode != ModePomodoro {
		return ModePomodoro
	}
	interval := s.LongBreakInterval
	if interval <= 0 {
		interval = DefaultLongBreakInterval
	}
	if s.CompletedPomodoros > 0 && s.CompletedPomodoros%interval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// Complete finishes the current interval and moves to the next mode. It
// reports whether a focus interval was completed.
func (s *PomodoroState) Complete(now time.Time) bool {
	focus := s.Mode == ModePomodoro
	if focus {
		s.CompletedPomodoros++
	}
	s.Mode = s.NextMode()
	s.Reset(now)
	return focus
}

// Skip advances to the next mode without counting the current interval.
func (s *PomodoroState) Skip(now time.Time) {
	if s.Mode == ModePomodoro {
		s.Mode = ModeShortBreak
	} else {
		s.Mode = ModePomodoro
	}
	s.Reset(now)
}

// SetDurations updates the interval lengths in minutes. A non-running timer
// picks up the new length for its current mode.
func (s *PomodoroState) SetDurations(focus, shortBreak, longBreak int, now time.Time) error {
	for _, m := range []int{focus, shortBreak, longBreak} {
		if m < 1 || m > 180 {
			return ErrInvalidDuration
		}
	}
	s.FocusSeconds = focus * 60
	s.ShortBreakSeconds = shortBreak * 60
	s.LongBreakSeconds = longBreak * 60
	if s.Status == StatusIdle {
		s.RemainingSeconds = s.Duration(s.Mode)
	}
	s.UpdatedAt = now
	return nil
}

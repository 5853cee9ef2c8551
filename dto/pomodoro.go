package dto

import (
	"time"

	"studyflow/model"
)

type SwitchModeRequest struct {
	Mode model.PomodoroMode `json:"mode" binding:"required"`
}

type SelectTaskRequest struct {
	TaskID string `json:"task_id"`
}

type DurationsRequest struct {
	FocusMinutes      int `json:"focus_minutes" binding:"required"`
	ShortBreakMinutes int `json:"short_break_minutes" binding:"required"`
	LongBreakMinutes  int `json:"long_break_minutes" binding:"required"`
}

// PomodoroView is the timer as the client renders it. RemainingSeconds is
// computed at response time so a running timer never shows a stale value.
type PomodoroView struct {
	Mode               model.PomodoroMode `json:"mode"`
	Status             model.TimerStatus  `json:"status"`
	RemainingSeconds   int                `json:"remaining_seconds"`
	EndsAt             *time.Time         `json:"ends_at,omitempty"`
	CompletedPomodoros int                `json:"completed_pomodoros"`
	ActiveTaskID       string             `json:"active_task_id,omitempty"`
	FocusMinutes       int                `json:"focus_minutes"`
	ShortBreakMinutes  int                `json:"short_break_minutes"`
	LongBreakMinutes   int                `json:"long_break_minutes"`
	LongBreakInterval  int                `json:"long_break_interval"`
}

func ToPomodoroView(s *model.PomodoroState, now time.Time) PomodoroView {
	return PomodoroView{
		Mode:               s.Mode,
		Status:             s.Status,
		RemainingSeconds:   s.Remaining(now),
		EndsAt:             s.EndsAt,
		CompletedPomodoros: s.CompletedPomodoros,
		ActiveTaskID:       s.ActiveTaskID,
		FocusMinutes:       s.FocusSeconds / 60,
		ShortBreakMinutes:  s.ShortBreakSeconds / 60,
		LongBreakMinutes:   s.LongBreakSeconds / 60,
		LongBreakInterval:  s.LongBreakInterval,
	}
}

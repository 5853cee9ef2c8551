package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)

func TestPomodoroStartPauseResume(t *testing.T) {
	s := NewPomodoroState("u1", t0)
	assert.Equal(t, DefaultFocusSeconds, s.Remaining(t0))

	s.Start(t0)
	require.NotNil(t, s.EndsAt)
	assert.Equal(t, 20*60, s.Remaining(t0.Add(5*time.Minute)))

	s.Pause(t0.Add(5 * time.Minute))
	assert.Equal(t, StatusPaused, s.Status)
	assert.Nil(t, s.EndsAt)
	assert.Equal(t, 20*60, s.Remaining(t0.Add(time.Hour)))

	s.Start(t0.Add(time.Hour))
	assert.Equal(t, t0.Add(time.Hour+20*time.Minute), *s.EndsAt)
	assert.True(t, s.Due(t0.Add(2*time.Hour)))
	assert.Equal(t, 0, s.Remaining(t0.Add(2*time.Hour)))
}

func TestPomodoroCompleteCycle(t *testing.T) {
	s := NewPomodoroState("u1", t0)
	s.LongBreakInterval = 2

	assert.True(t, s.Complete(t0))
	assert.Equal(t, ModeShortBreak, s.Mode)
	assert.Equal(t, DefaultShortBreakSeconds, s.RemainingSeconds)

	assert.False(t, s.Complete(t0))
	assert.Equal(t, ModePomodoro, s.Mode)

	assert.True(t, s.Complete(t0))
	assert.Equal(t, ModeLongBreak, s.Mode)
	assert.Equal(t, 2, s.CompletedPomodoros)
	assert.Equal(t, StatusIdle, s.Status)
}

func TestPomodoroSkipAndSwitch(t *testing.T) {
	s := NewPomodoroState("u1", t0)
	s.Start(t0)
	s.Skip(t0)
	assert.Equal(t, ModeShortBreak, s.Mode)
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, 0, s.CompletedPomodoros)

	s.Skip(t0)
	assert.Equal(t, ModePomodoro, s.Mode)

	assert.ErrorIs(t, s.SwitchMode("coffee", t0), ErrInvalidMode)
	require.NoError(t, s.SwitchMode(ModeLongBreak, t0))
	assert.Equal(t, DefaultLongBreakSeconds, s.RemainingSeconds)
}

func TestPomodoroSetDurations(t *testing.T) {
	s := NewPomodoroState("u1", t0)
	assert.ErrorIs(t, s.SetDurations(181, 5, 15, t0), ErrInvalidDuration)

	require.NoError(t, s.SetDurations(50, 10, 30, t0))
	assert.Equal(t, 50*60, s.RemainingSeconds)

	s.Start(t0)
	require.NoError(t, s.SetDurations(40, 10, 30, t0))
	assert.Equal(t, 50*60, s.Remaining(t0), "a running interval keeps its length")
}

func TestPomodoroDueAtEndsAt(t *testing.T) {
	s := NewPomodoroState("u1", t0)
	s.Start(t0)
	end := t0.Add(25 * time.Minute)

	assert.False(t, s.Due(end.Add(-400*time.Millisecond)))
	assert.Equal(t, 1, s.Remaining(end.Add(-400*time.Millisecond)))
	assert.True(t, s.Due(end))
	assert.Equal(t, 0, s.Remaining(end))
}

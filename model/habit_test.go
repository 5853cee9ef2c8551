package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC)
}

func TestWeekdayIndexStartsMonday(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Monday))
	assert.Equal(t, 2, WeekdayIndex(time.Wednesday))
	assert.Equal(t, 6, WeekdayIndex(time.Sunday))
	assert.Equal(t, 29, MonthDayIndex(31))
	assert.Equal(t, 0, MonthDayIndex(1))
}

func TestHabitToggle(t *testing.T) {
	h := NewHabit("u1", "Read", "", day(13))

	assert.True(t, h.Toggle(day(13)))
	assert.Equal(t, 1, h.CurrentStreak)
	assert.True(t, h.WeeklyProgress[2])
	assert.True(t, h.MonthlyProgress[12])

	assert.False(t, h.Toggle(day(13)))
	assert.Equal(t, 0, h.CurrentStreak)
	assert.False(t, h.WeeklyProgress[2])
	assert.Empty(t, h.LastCompletedDate)
}

func TestHabitStreakAcrossDays(t *testing.T) {
	h := NewHabit("u1", "Read", "", day(13))
	h.Toggle(day(13))
	h.Toggle(day(14))
	assert.Equal(t, 2, h.CurrentStreak)

	// Undoing today keeps yesterday's streak alive.
	h.Toggle(day(14))
	assert.Equal(t, 1, h.CurrentStreak)
	assert.Equal(t, "2024-03-13", h.LastCompletedDate)
	h.Toggle(day(14))

	h.Roll(day(16))
	assert.Equal(t, 0, h.CurrentStreak, "a missed day breaks the streak")
	assert.False(t, h.TodayCompleted)
}

func TestHabitRollClearsPeriods(t *testing.T) {
	h := NewHabit("u1", "Read", "", day(13))
	h.Toggle(day(13))

	h.Roll(day(18)) // Monday of the next week
	assert.Equal(t, make([]bool, WeekDays), h.WeeklyProgress)
	assert.True(t, h.MonthlyProgress[12])

	h.Roll(time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, make([]bool, MonthDays), h.MonthlyProgress)
}

func TestHabitMarkCompletedIsIdempotent(t *testing.T) {
	h := NewHabit("u1", "Read", "", day(13))
	assert.True(t, h.MarkCompleted(day(13)))
	assert.False(t, h.MarkCompleted(day(13)))
	assert.Equal(t, 1, h.CurrentStreak)
}

func TestHabitFixesShortProgressSlices(t *testing.T) {
	h := &Habit{WeeklyProgress: []bool{true}, LastRolledDate: "2024-03-13"}
	h.Roll(day(13))
	assert.Len(t, h.WeeklyProgress, WeekDays)
	assert.Len(t, h.MonthlyProgress, MonthDays)
	assert.True(t, h.WeeklyProgress[0])
}

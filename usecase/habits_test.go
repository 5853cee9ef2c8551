package usecase

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"studyflow/model"
	"studyflow/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTodayUpdatesStreakAndProgress(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	h, err := env.habitSvc.CreateHabit(ctx, "u1", "Read", "20 pages")
	require.NoError(t, err)
	assert.Len(t, h.WeeklyProgress, model.WeekDays)
	assert.Len(t, h.MonthlyProgress, model.MonthDays)

	h, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.True(t, h.TodayCompleted)
	assert.Equal(t, 1, h.CurrentStreak)
	assert.True(t, h.WeeklyProgress[2], "Wednesday is index 2")
	assert.True(t, h.MonthlyProgress[12])

	h, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.False(t, h.TodayCompleted)
	assert.Equal(t, 0, h.CurrentStreak)
	assert.False(t, h.WeeklyProgress[2])
	assert.False(t, h.MonthlyProgress[12])

	p, err := env.profileSvc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.XPHabitCompleted, p.TotalXP)
	require.NotEmpty(t, env.events.Events)
	assert.Equal(t, events.HabitCompleted, env.events.Events[0].Type)
}

func TestToggleTodayAcrossDays(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	h, err := env.habitSvc.CreateHabit(ctx, "u1", "Run", "")
	require.NoError(t, err)

	_, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)

	env.clock.Advance(24 * time.Hour)
	h, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, h.CurrentStreak)

	// skip Friday, toggle on Saturday
	env.clock.Advance(48 * time.Hour)
	h, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentStreak)
	assert.Equal(t, []bool{false, false, true, true, false, true, false}, h.WeeklyProgress)

	// next Monday starts a new week
	env.clock.Advance(48 * time.Hour)
	list, err := env.habitSvc.ListHabits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, make([]bool, model.WeekDays), list[0].WeeklyProgress)
	assert.False(t, list[0].TodayCompleted)
	assert.Equal(t, 0, list[0].CurrentStreak)
}

func TestToggleTodayUsesProfileTimezone(t *testing.T) {
	// 23:30 UTC on Wednesday is already Thursday in Ho Chi Minh City.
	env := newTestEnv(time.Date(2024, time.March, 13, 23, 30, 0, 0, time.UTC))
	ctx := context.Background()

	tz := "Asia/Ho_Chi_Minh"
	_, err := env.profileSvc.UpdateProfile(ctx, "u1", ProfileUpdate{Timezone: &tz})
	require.NoError(t, err)

	h, err := env.habitSvc.CreateHabit(ctx, "u1", "Journal", "")
	require.NoError(t, err)
	h, err = env.habitSvc.ToggleToday(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.True(t, h.WeeklyProgress[3])
	assert.True(t, h.MonthlyProgress[13])
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	h, err := env.habitSvc.CreateHabit(ctx, "u1", "Code", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		h, err = env.habitSvc.MarkCompleted(ctx, "u1", h.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, h.CurrentStreak)

	p, err := env.profileSvc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.XPHabitCompleted, p.TotalXP)
}

func TestUpdateAndDeleteHabitCascadeToTasks(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	h, err := env.habitSvc.CreateHabit(ctx, "u1", "Piano", "")
	require.NoError(t, err)
	task, err := env.taskSvc.CreateFromHabit(ctx, "u1", h.ID, 2, model.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "Piano", task.Text)
	assert.Equal(t, "Piano", task.HabitTitle)

	title := "Piano scales"
	_, err = env.habitSvc.UpdateHabit(ctx, "u1", h.ID, &title, nil)
	require.NoError(t, err)
	task, err = env.taskSvc.GetTask(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Piano scales", task.HabitTitle)

	require.NoError(t, env.habitSvc.DeleteHabit(ctx, "u1", h.ID))
	_, err = env.taskSvc.GetTask(ctx, "u1", task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, env.habitSvc.DeleteHabit(ctx, "u1", h.ID), ErrHabitNotFound)
}

func TestTaskValidationAndOrdering(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	_, err := env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "x", EstimatedPomodoros: 21})
	assert.ErrorIs(t, err, ErrInvalidEstimate)
	_, err = env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
	_, err = env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "x", HabitID: "missing"})
	assert.ErrorIs(t, err, ErrHabitNotFound)

	low, err := env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "low", Priority: model.PriorityLow})
	require.NoError(t, err)
	high, err := env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "high", Priority: model.PriorityHigh})
	require.NoError(t, err)
	done, err := env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "done", Priority: model.PriorityHigh})
	require.NoError(t, err)
	_, err = env.taskSvc.ToggleTask(ctx, "u1", done.ID)
	require.NoError(t, err)

	list, err := env.taskSvc.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{high.ID, low.ID, done.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestUpdateTaskLoweringEstimateCompletesTask(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	task, err := env.taskSvc.CreateTask(ctx, "u1", TaskInput{Text: "Essay", EstimatedPomodoros: 4})
	require.NoError(t, err)
	task.PomodoroCount = 2
	require.NoError(t, env.tasks.SaveTask(ctx, task))

	three := 3
	task, err = env.taskSvc.UpdateTask(ctx, "u1", task.ID, TaskUpdate{EstimatedPomodoros: &three})
	require.NoError(t, err)
	assert.False(t, task.Completed)

	two := 2
	task, err = env.taskSvc.UpdateTask(ctx, "u1", task.ID, TaskUpdate{EstimatedPomodoros: &two})
	require.NoError(t, err)
	assert.True(t, task.Completed)

	stored, err := env.taskSvc.GetTask(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

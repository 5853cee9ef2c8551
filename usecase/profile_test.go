package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"studyflow/model"
	"studyflow/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileCreatesDefault(t *testing.T) {
	env := newTestEnv(testNow)
	p, err := env.profileSvc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, model.DefaultDailyGoal, p.DailyGoal)
	assert.Equal(t, model.DefaultTimezone, p.Timezone)
}

func TestUpdateProfileValidates(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	zero, tooMany, goal := 0, model.MaxDailyGoal+1, 8
	_, err := env.profileSvc.UpdateProfile(ctx, "u1", ProfileUpdate{DailyGoal: &zero})
	assert.ErrorIs(t, err, ErrInvalidDailyGoal)
	_, err = env.profileSvc.UpdateProfile(ctx, "u1", ProfileUpdate{DailyGoal: &tooMany})
	assert.ErrorIs(t, err, ErrInvalidDailyGoal)

	bad := "Mars/Olympus"
	_, err = env.profileSvc.UpdateProfile(ctx, "u1", ProfileUpdate{Timezone: &bad})
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	name, tz := "  Lan  ", "Asia/Ho_Chi_Minh"
	p, err := env.profileSvc.UpdateProfile(ctx, "u1", ProfileUpdate{Name: &name, DailyGoal: &goal, Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "Lan", p.Name)
	assert.Equal(t, 8, p.DailyGoal)
	assert.Equal(t, tz, p.Location().String())
}

func TestRecordActivityStreakAndLevel(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	p, err := env.profileSvc.RecordActivity(ctx, "u1", model.XPFocusSession, "focus_session")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)

	p, err = env.profileSvc.RecordActivity(ctx, "u1", model.XPFocusSession, "focus_session")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak, "same day does not extend the streak")

	env.clock.Advance(24 * time.Hour)
	p, err = env.profileSvc.RecordActivity(ctx, "u1", model.XPFocusSession, "focus_session")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Streak)
	assert.Equal(t, 1, p.Level)

	p, err = env.profileSvc.RecordActivity(ctx, "u1", model.XPFocusSession, "focus_session")
	require.NoError(t, err)
	assert.Equal(t, 100, p.TotalXP)
	assert.Equal(t, 2, p.Level)

	require.NotEmpty(t, env.events.Events)
	last := env.events.Events[len(env.events.Events)-1]
	assert.Equal(t, events.LevelUp, last.Type)

	env.clock.Advance(72 * time.Hour)
	p, err = env.profileSvc.RecordActivity(ctx, "u1", model.XPChatMessage, "chat_message")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak, "a missed day restarts the streak")
}

func TestRecordActivityConcurrentAwardsAllCount(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.profileSvc.RecordActivity(ctx, "u1", model.XPChatMessage, "chat_message")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := env.profileSvc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers*model.XPChatMessage, p.TotalXP)
}

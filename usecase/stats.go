package usecase

import (
	"context"

	"studyflow/model"
)

type StatsService struct {
	profiles *ProfileService
	chats    ChatStore
	decks    DeckStore
	habits   *HabitService
	tasks    TaskStore
	pomodoro *PomodoroService
}

func NewStatsService(profiles *ProfileService, chats ChatStore, decks DeckStore, habits *HabitService, tasks TaskStore, pomodoro *PomodoroService) *StatsService {
	return &StatsService{profiles: profiles, chats: chats, decks: decks, habits: habits, tasks: tasks, pomodoro: pomodoro}
}

// GetStats gathers the dashboard counters for the user.
func (svc *StatsService) GetStats(ctx context.Context, userID string) (*model.UserStats, error) {
	var stats model.UserStats

	profile, err := svc.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Profile.TotalXP = profile.TotalXP
	stats.Profile.Level = profile.Level
	stats.Profile.Streak = profile.Streak
	stats.Profile.DailyGoal = profile.DailyGoal

	sessions, err := svc.chats.CountSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.ChatStats.Sessions = int(sessions)

	totals, err := svc.decks.DeckTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.FlashcardStats.Decks = totals.Decks
	stats.FlashcardStats.Cards = totals.Cards
	stats.FlashcardStats.Learned = totals.Learned

	habits, err := svc.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.HabitStats.Total = len(habits)
	for _, h := range habits {
		if h.TodayCompleted {
			stats.HabitStats.CompletedToday++
		}
		if h.CurrentStreak > stats.HabitStats.BestStreak {
			stats.HabitStats.BestStreak = h.CurrentStreak
		}
	}

	focus, err := svc.pomodoro.FocusToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.PomodoroStats.CompletedToday = int(focus)
	if profile.DailyGoal > 0 {
		progress := float64(focus) / float64(profile.DailyGoal)
		if progress > 1 {
			progress = 1
		}
		stats.PomodoroStats.GoalProgress = progress
	}

	pending, err := svc.tasks.CountPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.PomodoroStats.PendingTasks = int(pending)

	return &stats, nil
}

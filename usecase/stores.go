package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
)

// The interfaces below are satisfied by the Mongo repositories in
// package repository and by in-memory fakes in tests.

type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error
	DeleteUser(ctx context.Context, userID string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error
	DeleteProfile(ctx context.Context, userID string) error
}

type AuthSessionStore interface {
	CreateSession(ctx context.Context, s *model.AuthSession) error
	GetSession(ctx context.Context, sessionID string) (*model.AuthSession, error)
	GetActiveSessions(ctx context.Context, userID string) ([]*model.AuthSession, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
	DeactivateSession(ctx context.Context, sessionID string) error
	DeactivateAllSessions(ctx context.Context, userID string) ([]string, error)
}

type ChatStore interface {
	ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error)
	CountSessions(ctx context.Context, userID string) (int64, error)
	CreateSession(ctx context.Context, s *model.ChatSession) error
	GetSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error)
	UpdateTitle(ctx context.Context, userID, sessionID, title string, at time.Time) error
	IncrementMessageCount(ctx context.Context, sessionID string, n int, at time.Time) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
	AddMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.Message, error)
	CountUserMessages(ctx context.Context, sessionID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type DeckStore interface {
	ListDecks(ctx context.Context, userID string) ([]*model.FlashcardDeck, error)
	CreateDeck(ctx context.Context, d *model.FlashcardDeck) error
	GetDeck(ctx context.Context, userID, deckID string) (*model.FlashcardDeck, error)
	GetDeckByShareCode(ctx context.Context, code string) (*model.FlashcardDeck, error)
	SaveDeck(ctx context.Context, d *model.FlashcardDeck) error
	DeleteDeck(ctx context.Context, userID, deckID string) error
	DeckTotals(ctx context.Context, userID string) (*repository.DeckTotals, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type HabitStore interface {
	ListHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	CreateHabit(ctx context.Context, h *model.Habit) error
	GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error)
	SaveHabit(ctx context.Context, h *model.Habit) error
	DeleteHabit(ctx context.Context, userID, habitID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type TaskStore interface {
	ListTasks(ctx context.Context, userID string) ([]*model.HabitTask, error)
	CreateTask(ctx context.Context, t *model.HabitTask) error
	GetTask(ctx context.Context, userID, taskID string) (*model.HabitTask, error)
	SaveTask(ctx context.Context, t *model.HabitTask) error
	DeleteTask(ctx context.Context, userID, taskID string) error
	DeleteTasksByHabit(ctx context.Context, userID, habitID string) error
	RenameHabit(ctx context.Context, userID, habitID, title string, at time.Time) error
	CountPending(ctx context.Context, userID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type PomodoroStore interface {
	GetState(ctx context.Context, userID string) (*model.PomodoroState, error)
	SaveState(ctx context.Context, s *model.PomodoroState) error
	AddSession(ctx context.Context, s *model.PomodoroSession) error
	CountFocusSince(ctx context.Context, userID string, since time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// UserDataEraser removes everything a user owns in one store. Account
// deletion runs each of them before the user record goes.
type UserDataEraser interface {
	DeleteByUser(ctx context.Context, userID string) error
}

// Locker serialises work on a key, see services.Locker.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

var (
	_ UserStore        = (*repository.UserRepo)(nil)
	_ ProfileStore     = (*repository.ProfileRepo)(nil)
	_ AuthSessionStore = (*repository.SessionRepo)(nil)
	_ ChatStore        = (*repository.ChatRepo)(nil)
	_ DeckStore        = (*repository.DeckRepo)(nil)
	_ HabitStore       = (*repository.HabitRepo)(nil)
	_ TaskStore        = (*repository.TaskRepo)(nil)
	_ PomodoroStore    = (*repository.PomodoroRepo)(nil)
	_ Locker           = (*services.Locker)(nil)
)

const (
	lockTTL     = 10 * time.Second
	lockRetries = 20
	lockBackoff = 50 * time.Millisecond
)

// acquireWithRetry waits for key, polling the locker. It returns
// services.ErrLocked when the lock stays taken.
func acquireWithRetry(ctx context.Context, locker Locker, key string) (func(), error) {
	for i := 0; i < lockRetries; i++ {
		release, err := locker.Acquire(ctx, key, lockTTL)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, services.ErrLocked) {
			return nil, fmt.Errorf("acquiring %s lock: %w", key, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, services.ErrLocked
}

// startOfDay is midnight of t's day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

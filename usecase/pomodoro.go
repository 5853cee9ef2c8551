package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/services/events"

	"github.com/google/uuid"
)

var ErrTimerBusy = errors.New("timer is being updated, try again")

type PomodoroService struct {
	store    PomodoroStore
	tasks    TaskStore
	habits   *HabitService
	profiles *ProfileService
	events   events.Publisher
	locker   Locker
	now      func() time.Time
}

func NewPomodoroService(store PomodoroStore, tasks TaskStore, habits *HabitService, profiles *ProfileService, publisher events.Publisher, locker Locker) *PomodoroService {
	if locker == nil {
		locker = services.NewLocker(nil)
	}
	return &PomodoroService{
		store:    store,
		tasks:    tasks,
		habits:   habits,
		profiles: profiles,
		events:   publisher,
		locker:   locker,
		now:      time.Now,
	}
}

// timerOp mutates the timer. expired is true when update already finished
// an interval that ran out before the request arrived.
type timerOp func(s *model.PomodoroState, now time.Time, expired bool) error

// update loads the user's timer under a lock, finishes it if it ran out,
// applies fn and saves the result.
func (svc *PomodoroService) update(ctx context.Context, userID string, fn timerOp) (*model.PomodoroState, error) {
	release, err := svc.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	s, err := svc.store.GetState(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		s = model.NewPomodoroState(userID, svc.now().UTC())
	} else if err != nil {
		return nil, err
	}

	now := svc.now().UTC()
	expired := s.Due(now)
	if expired {
		svc.complete(ctx, s, s.EndsAt.UTC())
	}
	if fn != nil {
		if err := fn(s, now, expired); err != nil {
			return nil, err
		}
	}
	if err := svc.store.SaveState(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (svc *PomodoroService) lock(ctx context.Context, userID string) (func(), error) {
	release, err := acquireWithRetry(ctx, svc.locker, "pomodoro:"+userID)
	if errors.Is(err, services.ErrLocked) {
		return nil, ErrTimerBusy
	}
	return release, err
}

// GetState returns the timer. A running timer whose end has passed is
// completed first.
func (svc *PomodoroService) GetState(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, nil)
}

func (svc *PomodoroService) Start(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		s.Start(now)
		return nil
	})
}

func (svc *PomodoroService) Pause(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		s.Pause(now)
		return nil
	})
}

func (svc *PomodoroService) Reset(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		s.Reset(now)
		return nil
	})
}

func (svc *PomodoroService) SwitchMode(ctx context.Context, userID string, mode model.PomodoroMode) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		return s.SwitchMode(mode, now)
	})
}

// Skip moves on without counting the current interval. An interval that
// already ran out has been advanced by update and is not skipped again.
func (svc *PomodoroService) Skip(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, expired bool) error {
		if !expired {
			s.Skip(now)
		}
		return nil
	})
}

// Complete finishes the current interval now, as if the countdown ran out.
// A client reporting a countdown that already hit zero gets the interval
// finished once.
func (svc *PomodoroService) Complete(ctx context.Context, userID string) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, expired bool) error {
		if !expired {
			svc.complete(ctx, s, now)
		}
		return nil
	})
}

func (svc *PomodoroService) SelectTask(ctx context.Context, userID, taskID string) (*model.PomodoroState, error) {
	if taskID != "" {
		task, err := svc.tasks.GetTask(ctx, userID, taskID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		if err != nil {
			return nil, err
		}
		if task.Completed {
			return nil, ErrTaskAlreadyClosed
		}
	}
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		s.ActiveTaskID = taskID
		s.UpdatedAt = now
		return nil
	})
}

// UpdateDurations sets the interval lengths in minutes.
func (svc *PomodoroService) UpdateDurations(ctx context.Context, userID string, focus, shortBreak, longBreak int) (*model.PomodoroState, error) {
	return svc.update(ctx, userID, func(s *model.PomodoroState, now time.Time, _ bool) error {
		return s.SetDurations(focus, shortBreak, longBreak, now)
	})
}

// complete advances the state machine and, for a focus interval, records the
// session and credits the active task and its habit.
func (svc *PomodoroService) complete(ctx context.Context, s *model.PomodoroState, now time.Time) {
	duration := s.Duration(s.Mode)
	if !s.Complete(now) {
		return
	}

	session := &model.PomodoroSession{
		ID:              uuid.NewString(),
		UserID:          s.UserID,
		TaskID:          s.ActiveTaskID,
		Mode:            model.ModePomodoro,
		DurationSeconds: duration,
		CompletedAt:     now,
	}
	if err := svc.store.AddSession(ctx, session); err != nil {
		slog.Warn("failed to log pomodoro session", "user_id", s.UserID, "error", err)
	}

	if s.ActiveTaskID != "" {
		svc.creditTask(ctx, s, now)
	}

	svc.profiles.award(ctx, s.UserID, model.XPFocusSession, "focus_session")
	publish(ctx, svc.events, events.New(events.FocusCompleted, s.UserID, map[string]any{
		"task_id":             s.ActiveTaskID,
		"duration_seconds":    duration,
		"completed_pomodoros": s.CompletedPomodoros,
	}))
}

func (svc *PomodoroService) creditTask(ctx context.Context, s *model.PomodoroState, now time.Time) {
	task, err := svc.tasks.GetTask(ctx, s.UserID, s.ActiveTaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.ActiveTaskID = ""
			return
		}
		slog.Warn("failed to load active task", "task_id", s.ActiveTaskID, "error", err)
		return
	}

	finished := task.AddPomodoro()
	task.UpdatedAt = now
	if err := svc.tasks.SaveTask(ctx, task); err != nil {
		slog.Warn("failed to update task", "task_id", task.ID, "error", err)
		return
	}
	if finished {
		s.ActiveTaskID = ""
	}

	if task.HabitID != "" && svc.habits != nil {
		if _, err := svc.habits.MarkCompleted(ctx, s.UserID, task.HabitID); err != nil && !errors.Is(err, ErrHabitNotFound) {
			slog.Warn("failed to complete linked habit", "habit_id", task.HabitID, "error", err)
		}
	}
}

// FocusToday counts focus sessions since local midnight.
func (svc *PomodoroService) FocusToday(ctx context.Context, userID string) (int64, error) {
	loc := svc.profiles.Location(ctx, userID)
	return svc.store.CountFocusSince(ctx, userID, startOfDay(svc.now(), loc).UTC())
}

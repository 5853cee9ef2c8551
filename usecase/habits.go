package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services/events"

	"github.com/google/uuid"
)

type HabitService struct {
	habits   HabitStore
	tasks    TaskStore
	profiles *ProfileService
	events   events.Publisher
	now      func() time.Time
}

func NewHabitService(habits HabitStore, tasks TaskStore, profiles *ProfileService, publisher events.Publisher) *HabitService {
	return &HabitService{habits: habits, tasks: tasks, profiles: profiles, events: publisher, now: time.Now}
}

// localNow is the current time in the user's timezone.
func (svc *HabitService) localNow(ctx context.Context, userID string) time.Time {
	return svc.now().In(svc.profiles.Location(ctx, userID))
}

// ListHabits returns the habits with elapsed periods rolled over.
func (svc *HabitService) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits, err := svc.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := svc.localNow(ctx, userID)
	for _, h := range habits {
		rolled := h.LastRolledDate
		h.Roll(now)
		if h.LastRolledDate != rolled {
			if err := svc.habits.SaveHabit(ctx, h); err != nil {
				return nil, err
			}
		}
	}
	return habits, nil
}

func (svc *HabitService) GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	h, err := svc.habits.GetHabit(ctx, userID, habitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHabitNotFound
	}
	return h, err
}

func (svc *HabitService) CreateHabit(ctx context.Context, userID, title, description string) (*model.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	h := model.NewHabit(userID, title, strings.TrimSpace(description), svc.localNow(ctx, userID))
	h.ID = uuid.NewString()
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.CreatedAt
	if err := svc.habits.CreateHabit(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// UpdateHabit edits title and description; linked tasks keep the new title.
func (svc *HabitService) UpdateHabit(ctx context.Context, userID, habitID string, title, description *string) (*model.Habit, error) {
	h, err := svc.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	renamed := false
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, ErrEmptyTitle
		}
		renamed = t != h.Title
		h.Title = t
	}
	if description != nil {
		h.Description = strings.TrimSpace(*description)
	}
	h.UpdatedAt = svc.now().UTC()
	if err := svc.save(ctx, h); err != nil {
		return nil, err
	}
	if renamed {
		if err := svc.tasks.RenameHabit(ctx, userID, habitID, h.Title, h.UpdatedAt); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// DeleteHabit removes the habit and the tasks created for it.
func (svc *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if err := svc.habits.DeleteHabit(ctx, userID, habitID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHabitNotFound
		}
		return err
	}
	return svc.tasks.DeleteTasksByHabit(ctx, userID, habitID)
}

// ToggleToday flips today's completion in the user's timezone.
func (svc *HabitService) ToggleToday(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	h, err := svc.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	completed := h.Toggle(svc.localNow(ctx, userID))
	h.UpdatedAt = svc.now().UTC()
	if err := svc.save(ctx, h); err != nil {
		return nil, err
	}
	if completed {
		svc.completed(ctx, h)
	}
	return h, nil
}

// MarkCompleted completes the habit for today if it is not already.
func (svc *HabitService) MarkCompleted(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	h, err := svc.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if !h.MarkCompleted(svc.localNow(ctx, userID)) {
		return h, nil
	}
	h.UpdatedAt = svc.now().UTC()
	if err := svc.save(ctx, h); err != nil {
		return nil, err
	}
	svc.completed(ctx, h)
	return h, nil
}

func (svc *HabitService) completed(ctx context.Context, h *model.Habit) {
	svc.profiles.award(ctx, h.UserID, model.XPHabitCompleted, "habit_completed")
	publish(ctx, svc.events, events.New(events.HabitCompleted, h.UserID,
		map[string]any{"habit_id": h.ID, "streak": h.CurrentStreak}))
}

func (svc *HabitService) save(ctx context.Context, h *model.Habit) error {
	err := svc.habits.SaveHabit(ctx, h)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrHabitNotFound
	}
	return err
}

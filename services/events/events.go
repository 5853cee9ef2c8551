// Package events publishes study activity to a message broker.
package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	FocusCompleted = "pomodoro.focus_completed"
	HabitCompleted = "habit.completed"
	CardsGenerated = "flashcards.generated"
	LevelUp        = "profile.level_up"
)

type Event struct {
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

func New(eventType, userID string, data map[string]any) Event {
	return Event{Type: eventType, UserID: userID, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop logs events at debug level. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(_ context.Context, e Event) error {
	slog.Debug("event", "type", e.Type, "user_id", e.UserID)
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

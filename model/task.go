package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	MaxEstimatedPomodoros = 20
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight orders priorities for listing, high first.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// HabitTask is a Pomodoro work item, optionally tied to a habit by a copied
// id and title.
type HabitTask struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	UserID             string    `bson:"user_id" json:"user_id"`
	Text               string    `bson:"text" json:"text"`
	HabitID            string    `bson:"habit_id,omitempty" json:"habit_id,omitempty"`
	HabitTitle         string    `bson:"habit_title,omitempty" json:"habit_title,omitempty"`
	PomodoroCount      int       `bson:"pomodoro_count" json:"pomodoro_count"`
	EstimatedPomodoros int       `bson:"estimated_pomodoros" json:"estimated_pomodoros"`
	Priority           Priority  `bson:"priority" json:"priority"`
	Completed          bool      `bson:"completed" json:"completed"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// AddPomodoro records one finished focus session and reports whether the
// task reached its estimate with it.
func (t *HabitTask) AddPomodoro() bool {
	t.PomodoroCount++
	return t.CompleteIfEstimateMet()
}

// CompleteIfEstimateMet closes an open task whose pomodoro count has reached
// its estimate and reports whether it did.
func (t *HabitTask) CompleteIfEstimateMet() bool {
	if !t.Completed && t.EstimatedPomodoros > 0 && t.PomodoroCount >= t.EstimatedPomodoros {
		t.Completed = true
		return true
	}
	return false
}

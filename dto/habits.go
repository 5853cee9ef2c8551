package dto

import (
	"studyflow/model"
	"studyflow/usecase"
)

type HabitRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateHabitRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type TaskRequest struct {
	Text               string         `json:"text" binding:"max=500"`
	EstimatedPomodoros int            `json:"estimated_pomodoros"`
	Priority           model.Priority `json:"priority"`
	HabitID            string         `json:"habit_id"`
}

func (r TaskRequest) Input() usecase.TaskInput {
	return usecase.TaskInput{
		Text:               r.Text,
		EstimatedPomodoros: r.EstimatedPomodoros,
		Priority:           r.Priority,
		HabitID:            r.HabitID,
	}
}

type TaskFromHabitRequest struct {
	HabitID            string         `json:"habit_id" binding:"required"`
	EstimatedPomodoros int            `json:"estimated_pomodoros"`
	Priority           model.Priority `json:"priority"`
}

type UpdateTaskRequest struct {
	Text               *string         `json:"text" binding:"omitempty,max=500"`
	EstimatedPomodoros *int            `json:"estimated_pomodoros"`
	Priority           *model.Priority `json:"priority"`
}

func (r UpdateTaskRequest) Update() usecase.TaskUpdate {
	return usecase.TaskUpdate{
		Text:               r.Text,
		EstimatedPomodoros: r.EstimatedPomodoros,
		Priority:           r.Priority,
	}
}

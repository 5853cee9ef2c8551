package model

type UserStats struct {
	Profile struct {
		TotalXP   int `json:"total_xp"`
		Level     int `json:"level"`
		Streak    int `json:"streak"`
		DailyGoal int `json:"daily_goal"`
	} `json:"profile"`
	ChatStats struct {
		Sessions int `json:"sessions"`
	} `json:"chat_stats"`
	FlashcardStats struct {
		Decks   int `json:"decks"`
		Cards   int `json:"cards"`
		Learned int `json:"learned"`
	} `json:"flashcard_stats"`
	HabitStats struct {
		Total          int `json:"total"`
		CompletedToday int `json:"completed_today"`
		BestStreak     int `json:"best_streak"`
	} `json:"habit_stats"`
	PomodoroStats struct {
		CompletedToday int     `json:"completed_today"`
		GoalProgress   float64 `json:"goal_progress"`
		PendingTasks   int     `json:"pending_tasks"`
	} `json:"pomodoro_stats"`
}

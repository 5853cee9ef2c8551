package repository

import (
	"errors"

	"studyflow/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection            = "users"
	ProfilesCollection         = "user_profiles"
	AuthSessionsCollection     = "auth_sessions"
	ChatSessionsCollection     = "chat_sessions"
	ChatMessagesCollection     = "chat_messages"
	DecksCollection            = "flashcard_decks"
	HabitsCollection           = "habits"
	HabitTasksCollection       = "pomodoro_habit_tasks"
	PomodoroStatesCollection   = "pomodoro_states"
	PomodoroSessionsCollection = "pomodoro_sessions"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// wrap maps driver errors onto package sentinels and counts the failure.
func wrap(err error, collection, reason string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		utils.TrackError("database", collection+"_duplicate")
		return ErrDuplicate
	}
	utils.TrackError("database", reason)
	return err
}

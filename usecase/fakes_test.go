package usecase

import "studyflow/testutils/memstore"

var (
	_ UserStore        = (*memstore.Users)(nil)
	_ ProfileStore     = (*memstore.Profiles)(nil)
	_ AuthSessionStore = (*memstore.AuthSessions)(nil)
	_ ChatStore        = (*memstore.Chats)(nil)
	_ DeckStore        = (*memstore.Decks)(nil)
	_ HabitStore       = (*memstore.Habits)(nil)
	_ TaskStore        = (*memstore.Tasks)(nil)
	_ PomodoroStore    = (*memstore.Pomodoro)(nil)
)

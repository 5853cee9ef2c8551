package usecase

import (
	"time"

	"studyflow/services"
	"studyflow/services/events"
	"studyflow/testutils"
	"studyflow/testutils/memstore"
)

type testEnv struct {
	clock    *testutils.Clock
	gen      *testutils.StubGenerator
	files    *testutils.MemoryStorage
	events   *events.Recorder
	users    *memstore.Users
	profiles *memstore.Profiles
	auth     *memstore.AuthSessions
	chats    *memstore.Chats
	decks    *memstore.Decks
	habits   *memstore.Habits
	tasks    *memstore.Tasks
	timers   *memstore.Pomodoro

	profileSvc  *ProfileService
	chatSvc     *ChatService
	cardSvc     *FlashcardService
	habitSvc    *HabitService
	taskSvc     *TaskService
	pomodoroSvc *PomodoroService
	statsSvc    *StatsService
}

// newTestEnv wires every service over in-memory stores with a fixed clock.
func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		clock:    testutils.NewClock(now),
		gen:      &testutils.StubGenerator{},
		files:    testutils.NewMemoryStorage(),
		events:   &events.Recorder{},
		users:    memstore.NewUsers(),
		profiles: memstore.NewProfiles(),
		auth:     memstore.NewAuthSessions(),
		chats:    memstore.NewChats(),
		decks:    memstore.NewDecks(),
		habits:   memstore.NewHabits(),
		tasks:    memstore.NewTasks(),
		timers:   memstore.NewPomodoro(),
	}

	locker := services.NewLocker(nil)

	env.profileSvc = NewProfileService(env.profiles, env.events, locker)
	env.profileSvc.now = env.clock.Now

	env.chatSvc = NewChatService(env.chats, env.gen, locker, env.profileSvc)
	env.chatSvc.now = env.clock.Now

	env.cardSvc = NewFlashcardService(env.decks, env.gen, env.files, env.profileSvc, env.events)
	env.cardSvc.now = env.clock.Now

	env.habitSvc = NewHabitService(env.habits, env.tasks, env.profileSvc, env.events)
	env.habitSvc.now = env.clock.Now

	env.taskSvc = NewTaskService(env.tasks, env.habits)
	env.taskSvc.now = env.clock.Now

	env.pomodoroSvc = NewPomodoroService(env.timers, env.tasks, env.habitSvc, env.profileSvc, env.events, locker)
	env.pomodoroSvc.now = env.clock.Now

	env.statsSvc = NewStatsService(env.profileSvc, env.chats, env.decks, env.habitSvc, env.tasks, env.pomodoroSvc)
	return env
}

// Package memstore holds in-memory implementations of the usecase stores for
// tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"studyflow/model"
	"studyflow/repository"
)

type Users struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUsers() *Users { return &Users{users: map[string]*model.User{}} }

func (m *Users) AddUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *Users) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Users) FindUser(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Users) UpdateTwoFactor(_ context.Context, userID, secret string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.TwoFactorSecret = secret
	u.TwoFactorEnabled = enabled
	return nil
}

func (m *Users) DeleteUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

type Profiles struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func NewProfiles() *Profiles { return &Profiles{profiles: map[string]*model.Profile{}} }

func (m *Profiles) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Profiles) SaveProfile(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *Profiles) DeleteProfile(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	return nil
}

type AuthSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.AuthSession
}

func NewAuthSessions() *AuthSessions {
	return &AuthSessions{sessions: map[string]*model.AuthSession{}}
}

func (m *AuthSessions) CreateSession(_ context.Context, s *model.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *AuthSessions) GetSession(_ context.Context, id string) (*model.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *AuthSessions) GetActiveSessions(_ context.Context, userID string) ([]*model.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.AuthSession{}
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *AuthSessions) TouchSession(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.LastSeenAt = at
	}
	return nil
}

func (m *AuthSessions) DeactivateSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.IsActive = false
	}
	return nil
}

func (m *AuthSessions) DeactivateAllSessions(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			ids = append(ids, s.SessionID)
		}
	}
	return ids, nil
}

type Chats struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession
	messages []*model.Message
	calls    int
}

func NewChats() *Chats { return &Chats{sessions: map[string]*model.ChatSession{}} }

func (m *Chats) ListSessions(_ context.Context, userID string) ([]*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []*model.ChatSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *Chats) CountSessions(ctx context.Context, userID string) (int64, error) {
	list, _ := m.ListSessions(ctx, userID)
	return int64(len(list)), nil
}

func (m *Chats) CreateSession(_ context.Context, s *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *Chats) GetSession(_ context.Context, userID, id string) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Chats) UpdateTitle(_ context.Context, userID, id, title string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	s.Title = title
	s.UpdatedAt = at
	return nil
}

func (m *Chats) IncrementMessageCount(_ context.Context, id string, n int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if s, ok := m.sessions[id]; ok {
		s.MessageCount += n
		s.UpdatedAt = at
	}
	return nil
}

func (m *Chats) DeleteSession(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.SessionID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Chats) AddMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *Chats) ListMessages(_ context.Context, sessionID string, limit int) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []*model.Message{}
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *Chats) CountUserMessages(_ context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		if msg.SessionID == sessionID && msg.Sender == model.SenderUser {
			n++
		}
	}
	return n, nil
}

// CallCount is the number of store operations made so far.
func (m *Chats) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Messages returns a copy of every stored message in insertion order.
func (m *Chats) Messages() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.messages...)
}

type Decks struct {
	mu    sync.Mutex
	decks map[string]*model.FlashcardDeck
}

func NewDecks() *Decks { return &Decks{decks: map[string]*model.FlashcardDeck{}} }

func cloneDeck(d *model.FlashcardDeck) *model.FlashcardDeck {
	cp := *d
	cp.Cards = append([]model.Flashcard(nil), d.Cards...)
	return &cp
}

func (m *Decks) ListDecks(_ context.Context, userID string) ([]*model.FlashcardDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.FlashcardDeck{}
	for _, d := range m.decks {
		if d.UserID == userID {
			out = append(out, cloneDeck(d))
		}
	}
	return out, nil
}

func (m *Decks) CreateDeck(_ context.Context, d *model.FlashcardDeck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.Recount()
	m.decks[d.ID] = cloneDeck(d)
	return nil
}

func (m *Decks) GetDeck(_ context.Context, userID, id string) (*model.FlashcardDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.decks[id]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return cloneDeck(d), nil
}

func (m *Decks) GetDeckByShareCode(_ context.Context, code string) (*model.FlashcardDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.decks {
		if d.ShareCode != "" && d.ShareCode == code {
			return cloneDeck(d), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Decks) SaveDeck(_ context.Context, d *model.FlashcardDeck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.decks[d.ID]
	if !ok || existing.UserID != d.UserID {
		return repository.ErrNotFound
	}
	d.Recount()
	m.decks[d.ID] = cloneDeck(d)
	return nil
}

func (m *Decks) DeleteDeck(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.decks[id]
	if !ok || d.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.decks, id)
	return nil
}

func (m *Decks) DeckTotals(_ context.Context, userID string) (*repository.DeckTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &repository.DeckTotals{}
	for _, d := range m.decks {
		if d.UserID == userID {
			t.Decks++
			t.Cards += d.Total
			t.Learned += d.Learned
		}
	}
	return t, nil
}

type Habits struct {
	mu     sync.Mutex
	habits map[string]*model.Habit
}

func NewHabits() *Habits { return &Habits{habits: map[string]*model.Habit{}} }

func cloneHabit(h *model.Habit) *model.Habit {
	cp := *h
	cp.WeeklyProgress = append([]bool(nil), h.WeeklyProgress...)
	cp.MonthlyProgress = append([]bool(nil), h.MonthlyProgress...)
	return &cp
}

func (m *Habits) ListHabits(_ context.Context, userID string) ([]*model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Habit{}
	for _, h := range m.habits {
		if h.UserID == userID {
			out = append(out, cloneHabit(h))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Habits) CreateHabit(_ context.Context, h *model.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.habits[h.ID] = cloneHabit(h)
	return nil
}

func (m *Habits) GetHabit(_ context.Context, userID, id string) (*model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok || h.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return cloneHabit(h), nil
}

func (m *Habits) SaveHabit(_ context.Context, h *model.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.habits[h.ID]
	if !ok || existing.UserID != h.UserID {
		return repository.ErrNotFound
	}
	m.habits[h.ID] = cloneHabit(h)
	return nil
}

func (m *Habits) DeleteHabit(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok || h.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.habits, id)
	return nil
}

type Tasks struct {
	mu    sync.Mutex
	tasks map[string]*model.HabitTask
}

func NewTasks() *Tasks { return &Tasks{tasks: map[string]*model.HabitTask{}} }

func (m *Tasks) ListTasks(_ context.Context, userID string) ([]*model.HabitTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.HabitTask{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Tasks) CreateTask(_ context.Context, t *model.HabitTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *Tasks) GetTask(_ context.Context, userID, id string) (*model.HabitTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *Tasks) SaveTask(_ context.Context, t *model.HabitTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return repository.ErrNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *Tasks) DeleteTask(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Tasks) DeleteTasksByHabit(_ context.Context, userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		if t.UserID == userID && t.HabitID == habitID {
			delete(m.tasks, id)
		}
	}
	return nil
}

func (m *Tasks) RenameHabit(_ context.Context, userID, habitID, title string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.UserID == userID && t.HabitID == habitID {
			t.HabitTitle = title
			t.UpdatedAt = at
		}
	}
	return nil
}

func (m *Tasks) CountPending(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tasks {
		if t.UserID == userID && !t.Completed {
			n++
		}
	}
	return n, nil
}

type Pomodoro struct {
	mu       sync.Mutex
	states   map[string]*model.PomodoroState
	sessions []*model.PomodoroSession
}

func NewPomodoro() *Pomodoro { return &Pomodoro{states: map[string]*model.PomodoroState{}} }

func (m *Pomodoro) GetState(_ context.Context, userID string) (*model.PomodoroState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Pomodoro) SaveState(_ context.Context, s *model.PomodoroState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.states[s.UserID] = &cp
	return nil
}

func (m *Pomodoro) AddSession(_ context.Context, s *model.PomodoroSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions = append(m.sessions, &cp)
	return nil
}

func (m *Pomodoro) CountFocusSince(_ context.Context, userID string, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.UserID == userID && s.Mode == model.ModePomodoro && !s.CompletedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// Sessions returns the logged focus sessions in insertion order.
func (m *Pomodoro) Sessions() []*model.PomodoroSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.PomodoroSession(nil), m.sessions...)
}

func (m *Chats) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.UserID != userID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *Decks) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.decks {
		if d.UserID == userID {
			delete(m.decks, id)
		}
	}
	return nil
}

func (m *Habits) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, h := range m.habits {
		if h.UserID == userID {
			delete(m.habits, id)
		}
	}
	return nil
}

func (m *Tasks) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		if t.UserID == userID {
			delete(m.tasks, id)
		}
	}
	return nil
}

func (m *Pomodoro) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

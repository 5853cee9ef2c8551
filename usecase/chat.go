package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/services/ai"
	"studyflow/utils"

	"github.com/google/uuid"
)

const (
	chatTitleRunes = 50
	sendLockTTL    = 2 * time.Minute
)

type ChatService struct {
	chats    ChatStore
	gen      ai.Generator
	locker   Locker
	profiles *ProfileService
	now      func() time.Time
}

func NewChatService(chats ChatStore, gen ai.Generator, locker Locker, profiles *ProfileService) *ChatService {
	if gen == nil {
		gen = ai.LocalResponder{}
	}
	if locker == nil {
		locker = services.NewLocker(nil)
	}
	return &ChatService{chats: chats, gen: gen, locker: locker, profiles: profiles, now: time.Now}
}

func (svc *ChatService) ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	return svc.chats.ListSessions(ctx, userID)
}

func (svc *ChatService) CreateSession(ctx context.Context, userID, title string) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultChatTitle
	}
	now := svc.now().UTC()
	s := &model.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.chats.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (svc *ChatService) GetSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	s, err := svc.chats.GetSession(ctx, userID, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	return s, err
}

// RenameSession sets a new title. A blank title leaves the session as is.
func (svc *ChatService) RenameSession(ctx context.Context, userID, sessionID, title string) (*model.ChatSession, error) {
	s, err := svc.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" || title == s.Title {
		return s, nil
	}

	now := svc.now().UTC()
	if err := svc.chats.UpdateTitle(ctx, userID, sessionID, title, now); err != nil {
		return nil, err
	}
	s.Title = title
	s.UpdatedAt = now
	return s, nil
}

func (svc *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	err := svc.chats.DeleteSession(ctx, userID, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrChatNotFound
	}
	return err
}

func (svc *ChatService) ListMessages(ctx context.Context, userID, sessionID string) ([]*model.Message, error) {
	if _, err := svc.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return svc.chats.ListMessages(ctx, sessionID, 0)
}

type SendResult struct {
	Session     *model.ChatSession `json:"session"`
	UserMessage *model.Message     `json:"user_message"`
	AIMessage   *model.Message     `json:"ai_message"`
	Fallback    bool               `json:"fallback"`
}

// SendMessage stores the user's message, asks the tutor for a reply and
// stores that too. Only one send per session runs at a time.
func (svc *ChatService) SendMessage(ctx context.Context, userID, sessionID, content string) (*SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	release, err := svc.locker.Acquire(ctx, "chat:"+sessionID, sendLockTTL)
	if errors.Is(err, services.ErrLocked) {
		return nil, ErrChatBusy
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring chat lock: %w", err)
	}
	defer release()

	session, err := svc.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &model.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Content:   content,
		Sender:    model.SenderUser,
		Timestamp: svc.now().UTC(),
	}
	if err := svc.chats.AddMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("storing message: %w", err)
	}

	if session.Title == model.DefaultChatTitle {
		if n, err := svc.chats.CountUserMessages(ctx, sessionID); err == nil && n == 1 {
			title := utils.TruncateRunes(content, chatTitleRunes)
			if err := svc.chats.UpdateTitle(ctx, userID, sessionID, title, userMsg.Timestamp); err != nil {
				slog.Warn("failed to set chat title", "session_id", sessionID, "error", err)
			} else {
				session.Title = title
			}
		}
	}

	history, err := svc.chats.ListMessages(ctx, sessionID, ai.ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	msgs := make([]model.Message, len(history))
	for i, m := range history {
		msgs[i] = *m
	}

	lang := utils.DetectLanguage(content)
	reply, fallback := ai.WithFallback(ctx, svc.gen, ai.ChatPrompt(msgs, lang), lang)
	if fallback {
		utils.TrackError("ai", "chat_fallback")
	}

	aiMsg := &model.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Content:   reply,
		Sender:    model.SenderAI,
		Timestamp: svc.now().UTC(),
	}
	if !aiMsg.Timestamp.After(userMsg.Timestamp) {
		aiMsg.Timestamp = userMsg.Timestamp.Add(time.Millisecond)
	}
	if err := svc.chats.AddMessage(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("storing reply: %w", err)
	}

	if err := svc.chats.IncrementMessageCount(ctx, sessionID, 2, aiMsg.Timestamp); err != nil {
		slog.Warn("failed to update chat counters", "session_id", sessionID, "error", err)
	} else {
		session.MessageCount += 2
		session.UpdatedAt = aiMsg.Timestamp
	}

	svc.profiles.award(ctx, userID, model.XPChatMessage, "chat_message")

	return &SendResult{Session: session, UserMessage: userMsg, AIMessage: aiMsg, Fallback: fallback}, nil
}

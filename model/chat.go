package model

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"

	DefaultChatTitle = "New Chat"
)

type ChatSession struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	Title        string    `bson:"title" json:"title"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	MessageCount int       `bson:"message_count" json:"message_count"`
}

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Content   string    `bson:"content" json:"content"`
	Sender    Sender    `bson:"sender" json:"sender"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

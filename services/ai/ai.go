// Package ai wraps the generative text API used by chat and flashcard
// generation, with a local responder for when it is unavailable.
package ai

import (
	"context"
	"errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

var (
	ErrEmptyResponse = errors.New("ai returned an empty response")
	ErrNotConfigured = errors.New("ai generator not configured")
)

type Turn struct {
	Role Role
	Text string
}

type Prompt struct {
	// Purpose labels metrics, e.g. "chat" or "flashcards".
	Purpose     string
	System      string
	Turns       []Turn
	Temperature float32
}

type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

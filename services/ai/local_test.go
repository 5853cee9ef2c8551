package ai

import (
	"context"
	"errors"
	"testing"

	"studyflow/model"
	"studyflow/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, Prompt) (string, error) {
	return "", errors.New("upstream down")
}

func userPrompt(text string) Prompt {
	return Prompt{Purpose: "chat", Turns: []Turn{{Role: RoleUser, Text: text}}}
}

func TestLocalResponderKeywords(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"english greeting", "hi there", "Hello! I'm your study assistant. What would you like to learn today?"},
		{"vietnamese greeting", "Xin chào bạn", "Xin chào! Tôi là trợ lý học tập của bạn. Hôm nay bạn muốn học gì?"},
		{"pomodoro", "How does the pomodoro method work?", keywordReplies[1].en},
		{"thanks", "thanks a lot", keywordReplies[4].en},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalResponder{}.Generate(ctx, userPrompt(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalResponderGenericReply(t *testing.T) {
	got, err := LocalResponder{}.Generate(context.Background(), userPrompt("Explain photosynthesis"))
	require.NoError(t, err)
	assert.Contains(t, got, "offline mode")
	assert.Contains(t, got, "Explain photosynthesis")
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	reply, fallback := WithFallback(ctx, failingGenerator{}, userPrompt("hello"), utils.LangEnglish)
	assert.True(t, fallback)
	assert.Equal(t, FallbackReply(utils.LangEnglish), reply)

	reply, fallback = WithFallback(ctx, failingGenerator{}, userPrompt("xin chào"), utils.LangVietnamese)
	assert.True(t, fallback)
	assert.Contains(t, reply, "sự cố kỹ thuật")

	reply, fallback = WithFallback(ctx, LocalResponder{}, userPrompt("hello"), utils.LangEnglish)
	assert.False(t, fallback)
	assert.NotEmpty(t, reply)
}

func TestChatPromptKeepsNewestHistory(t *testing.T) {
	var history []model.Message
	for i := 0; i < 25; i++ {
		sender := model.SenderUser
		if i%2 == 1 {
			sender = model.SenderAI
		}
		history = append(history, model.Message{Content: string(rune('a' + i)), Sender: sender})
	}

	p := ChatPrompt(history, utils.LangVietnamese)
	require.Len(t, p.Turns, ChatHistoryLimit)
	assert.Equal(t, "f", p.Turns[0].Text)
	assert.Equal(t, RoleModel, p.Turns[0].Role)
	assert.Equal(t, "y", p.Turns[len(p.Turns)-1].Text)
	assert.Contains(t, p.System, "Vietnamese")
}

func TestFlashcardPrompt(t *testing.T) {
	p := FlashcardPrompt("  Spanish animals ", 5, utils.LangEnglish)
	require.Len(t, p.Turns, 1)
	assert.Contains(t, p.Turns[0].Text, "Create 5 flashcards")
	assert.Contains(t, p.Turns[0].Text, "Spanish animals\n")
	assert.Equal(t, "flashcards", p.Purpose)
}

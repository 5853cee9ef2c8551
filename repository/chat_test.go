package repository

import (
	"context"
	"testing"
	"time"

	"studyflow/model"
	"studyflow/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepo(t *testing.T) {
	db := testutils.TestDatabase(t)
	ctx := context.Background()
	repo := GetChatRepo(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &model.ChatSession{ID: uuid.NewString(), UserID: "u1", Title: model.DefaultChatTitle, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateSession(ctx, session))

	for i, content := range []string{"one", "two", "three"} {
		require.NoError(t, repo.AddMessage(ctx, &model.Message{
			ID: uuid.NewString(), SessionID: session.ID, UserID: "u1",
			Content: content, Sender: model.SenderUser, Timestamp: now.Add(time.Duration(i) * time.Second),
		}))
	}

	t.Run("ListMessagesAscending", func(t *testing.T) {
		msgs, err := repo.ListMessages(ctx, session.ID, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "one", msgs[0].Content)
		assert.Equal(t, "three", msgs[2].Content)
	})

	t.Run("ListMessagesNewestWindow", func(t *testing.T) {
		msgs, err := repo.ListMessages(ctx, session.ID, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "two", msgs[0].Content)
		assert.Equal(t, "three", msgs[1].Content)
	})

	t.Run("IncrementMessageCount", func(t *testing.T) {
		require.NoError(t, repo.IncrementMessageCount(ctx, session.ID, 2, now.Add(time.Minute)))
		got, err := repo.GetSession(ctx, "u1", session.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.MessageCount)
	})

	t.Run("OtherUserCannotSee", func(t *testing.T) {
		_, err := repo.GetSession(ctx, "u2", session.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteRemovesMessages", func(t *testing.T) {
		require.NoError(t, repo.DeleteSession(ctx, "u1", session.ID))
		msgs, err := repo.ListMessages(ctx, session.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestDeckRepoTotals(t *testing.T) {
	db := testutils.TestDatabase(t)
	ctx := context.Background()
	repo := GetDeckRepo(db)

	deck := &model.FlashcardDeck{
		ID: uuid.NewString(), UserID: "u1", Title: "Verbs",
		Cards: []model.Flashcard{
			{ID: "a", Front: "go", Back: "đi", Learned: true},
			{ID: "b", Front: "eat", Back: "ăn"},
		},
	}
	require.NoError(t, repo.CreateDeck(ctx, deck))
	assert.Equal(t, 2, deck.Total)
	assert.Equal(t, 1, deck.Learned)

	totals, err := repo.DeckTotals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, DeckTotals{Decks: 1, Cards: 2, Learned: 1}, *totals)

	empty, err := repo.DeckTotals(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.Decks)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studyflow/model"
	"studyflow/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedTable = "Here are your cards:\n\n" +
	"| Front | Back | Example | Example translation |\n" +
	"|---|---|---|---|\n" +
	"| Xin chào | Hello | Xin chào bạn | Hello friend |\n" +
	"| Cảm ơn | Thank you | Cảm ơn nhiều | Thanks a lot |\n" +
	"| xin chao | Hi again | | |\n" +
	"| Tạm biệt | Goodbye | | |\n"

func TestCreateDeckKeepsCountersInLine(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Greetings", "", []CardInput{
		{Front: "Hello", Back: "Xin chào"},
		{Front: "hello ", Back: "duplicate"},
		{Front: "Bye", Back: "Tạm biệt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Total)
	assert.Equal(t, 0, deck.Learned)

	_, err = env.cardSvc.CreateDeck(ctx, "u1", "  ", "", nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = env.cardSvc.CreateDeck(ctx, "u1", "Bad", "", []CardInput{{Front: "only front"}})
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestGenerateCardsDedupes(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Vietnamese", "", []CardInput{
		{Front: "TẠM BIỆT", Back: "Goodbye"},
	})
	require.NoError(t, err)

	env.gen.Replies = []string{generatedTable}
	added, err := env.cardSvc.GenerateCards(ctx, "u1", deck.ID, GenerateInput{Topic: "Vietnamese greetings", Count: 4})
	require.NoError(t, err)

	fronts := make([]string, len(added))
	for i, c := range added {
		fronts[i] = c.Front
		assert.NotEmpty(t, c.ID)
	}
	assert.Equal(t, []string{"Xin chào", "Cảm ơn"}, fronts)
	assert.Equal(t, "Hello friend", added[0].ExampleTranslation)

	saved, err := env.cardSvc.GetDeck(ctx, "u1", deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Total)

	prompt := env.gen.Prompts[0]
	assert.Equal(t, "flashcards", prompt.Purpose)
	assert.Contains(t, prompt.Turns[0].Text, "Create 4 flashcards")

	require.Len(t, env.events.Events, 1)
	assert.Equal(t, events.CardsGenerated, env.events.Events[0].Type)
}

func TestGenerateCardsFailures(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()
	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Deck", "", nil)
	require.NoError(t, err)

	t.Run("AIError", func(t *testing.T) {
		env.gen.Err = errors.New("boom")
		defer func() { env.gen.Err = nil }()
		_, err := env.cardSvc.GenerateCards(ctx, "u1", deck.ID, GenerateInput{Topic: "math"})
		assert.ErrorIs(t, err, ErrAIUnavailable)
	})

	t.Run("NoTable", func(t *testing.T) {
		env.gen.Replies = []string{"Sorry, I cannot help with that."}
		_, err := env.cardSvc.GenerateCards(ctx, "u1", deck.ID, GenerateInput{Topic: "math"})
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("EmptyTopic", func(t *testing.T) {
		_, err := env.cardSvc.GenerateCards(ctx, "u1", deck.ID, GenerateInput{Topic: " "})
		assert.ErrorIs(t, err, ErrEmptyTopic)
	})
}

func TestSetLearnedAwardsXPOnce(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Deck", "", []CardInput{{Front: "a", Back: "b"}})
	require.NoError(t, err)
	cardID := deck.Cards[0].ID

	deck, err = env.cardSvc.SetLearned(ctx, "u1", deck.ID, cardID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, deck.Learned)

	_, err = env.cardSvc.SetLearned(ctx, "u1", deck.ID, cardID, true)
	require.NoError(t, err)

	p, err := env.profileSvc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.XPCardLearned, p.TotalXP)

	deck, err = env.cardSvc.ResetProgress(ctx, "u1", deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, deck.Learned)
}

func TestCardEditsRejectDuplicates(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Deck", "", []CardInput{
		{Front: "Đường", Back: "road"},
		{Front: "Nhà", Back: "house"},
	})
	require.NoError(t, err)

	_, err = env.cardSvc.AddCard(ctx, "u1", deck.ID, CardInput{Front: "duong", Back: "sugar"})
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = env.cardSvc.UpdateCard(ctx, "u1", deck.ID, deck.Cards[1].ID, CardInput{Front: "ĐƯỜNG", Back: "x"})
	assert.ErrorIs(t, err, ErrDuplicateCard)

	updated, err := env.cardSvc.UpdateCard(ctx, "u1", deck.ID, deck.Cards[0].ID, CardInput{Front: "đường", Back: "street"})
	require.NoError(t, err)
	assert.Equal(t, "street", updated.Back)

	deck, err = env.cardSvc.DeleteCard(ctx, "u1", deck.ID, deck.Cards[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, deck.Total)

	_, err = env.cardSvc.DeleteCard(ctx, "u1", deck.ID, "missing")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestShareAndImportDeck(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "owner", "Shared", "desc", []CardInput{{Front: "a", Back: "b"}})
	require.NoError(t, err)
	_, err = env.cardSvc.SetLearned(ctx, "owner", deck.ID, deck.Cards[0].ID, true)
	require.NoError(t, err)

	code, err := env.cardSvc.ShareDeck(ctx, "owner", deck.ID)
	require.NoError(t, err)
	assert.Len(t, code, shareCodeLength)

	again, err := env.cardSvc.ShareDeck(ctx, "owner", deck.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)

	imported, err := env.cardSvc.ImportSharedDeck(ctx, "reader", code)
	require.NoError(t, err)
	assert.Equal(t, "reader", imported.UserID)
	assert.NotEqual(t, deck.ID, imported.ID)
	assert.Empty(t, imported.ShareCode)
	assert.Equal(t, 1, imported.Total)
	assert.Equal(t, 0, imported.Learned)

	_, err = env.cardSvc.ImportSharedDeck(ctx, "reader", "nope")
	assert.ErrorIs(t, err, ErrShareCodeNotFound)
}

func TestMaterialUploadFeedsGeneration(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()

	deck, err := env.cardSvc.CreateDeck(ctx, "u1", "Notes", "", nil)
	require.NoError(t, err)

	_, err = env.cardSvc.UploadMaterial(ctx, "u1", deck.ID, "notes.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = env.cardSvc.GenerateFromMaterial(ctx, "u1", deck.ID, 5, "")
	assert.ErrorIs(t, err, ErrNoMaterial)

	info, err := env.cardSvc.UploadMaterial(ctx, "u1", deck.ID, "chapter1.md", strings.NewReader("Cells are the basic unit of life."))
	require.NoError(t, err)
	assert.Contains(t, info.Key, "materials/u1/"+deck.ID)
	assert.NotEmpty(t, info.URL)

	env.gen.Replies = []string{"| Term | Definition |\n|---|---|\n| Cell | Basic unit of life |\n"}
	added, err := env.cardSvc.GenerateFromMaterial(ctx, "u1", deck.ID, 5, "en")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "Cell", added[0].Front)
	assert.Contains(t, env.gen.Prompts[0].Turns[0].Text, "Cells are the basic unit of life.")
}

func TestMaterialUploadWithoutStorage(t *testing.T) {
	env := newTestEnv(testNow)
	svc := NewFlashcardService(env.decks, env.gen, nil, env.profileSvc, nil)
	_, err := svc.UploadMaterial(context.Background(), "u1", "d1", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services/ai"
	"studyflow/services/cardgen"
	"studyflow/services/events"
	"studyflow/services/storage"
	"studyflow/utils"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultGenerateCount = 10
	MaxGenerateCount     = 50
	shareCodeAlphabet    = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	shareCodeLength      = 10
	maxMaterialBytes     = 16 << 10
)

type FlashcardService struct {
	decks    DeckStore
	gen      ai.Generator
	files    storage.Storage
	profiles *ProfileService
	events   events.Publisher
	now      func() time.Time
}

// NewFlashcardService wires the deck usecases. files may be nil when no
// object storage is configured.
func NewFlashcardService(decks DeckStore, gen ai.Generator, files storage.Storage, profiles *ProfileService, publisher events.Publisher) *FlashcardService {
	if gen == nil {
		gen = ai.LocalResponder{}
	}
	return &FlashcardService{decks: decks, gen: gen, files: files, profiles: profiles, events: publisher, now: time.Now}
}

type CardInput struct {
	Front              string `json:"front"`
	Back               string `json:"back"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"example_translation"`
}

func (in CardInput) card() (model.Flashcard, error) {
	c := model.Flashcard{
		Front:              strings.TrimSpace(in.Front),
		Back:               strings.TrimSpace(in.Back),
		Example:            strings.TrimSpace(in.Example),
		ExampleTranslation: strings.TrimSpace(in.ExampleTranslation),
	}
	if c.Front == "" || c.Back == "" {
		return c, ErrInvalidCard
	}
	return c, nil
}

func (svc *FlashcardService) ListDecks(ctx context.Context, userID string) ([]*model.FlashcardDeck, error) {
	return svc.decks.ListDecks(ctx, userID)
}

func (svc *FlashcardService) GetDeck(ctx context.Context, userID, deckID string) (*model.FlashcardDeck, error) {
	d, err := svc.decks.GetDeck(ctx, userID, deckID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDeckNotFound
	}
	return d, err
}

// CreateDeck stores a new deck. Cards with a duplicate front are dropped.
func (svc *FlashcardService) CreateDeck(ctx context.Context, userID, title, description string, cards []CardInput) (*model.FlashcardDeck, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	parsed := make([]model.Flashcard, 0, len(cards))
	for _, in := range cards {
		c, err := in.card()
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, c)
	}

	now := svc.now().UTC()
	deck := &model.FlashcardDeck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Cards:       withIDs(cardgen.Dedupe(nil, parsed)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.decks.CreateDeck(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (svc *FlashcardService) UpdateDeck(ctx context.Context, userID, deckID string, title, description *string) (*model.FlashcardDeck, error) {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, ErrEmptyTitle
		}
		deck.Title = t
	}
	if description != nil {
		deck.Description = strings.TrimSpace(*description)
	}
	return deck, svc.save(ctx, deck)
}

func (svc *FlashcardService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return err
	}
	if err := svc.decks.DeleteDeck(ctx, userID, deckID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDeckNotFound
		}
		return err
	}
	if deck.MaterialKey != "" && svc.files != nil {
		if err := svc.files.Delete(ctx, deck.MaterialKey); err != nil {
			utils.TrackError("storage", "material_delete_failed")
		}
	}
	return nil
}

// DeleteByUser removes the user's decks and their uploaded material. Shared
// decks go too, so their codes stop resolving.
func (svc *FlashcardService) DeleteByUser(ctx context.Context, userID string) error {
	if svc.files != nil {
		decks, err := svc.decks.ListDecks(ctx, userID)
		if err != nil {
			return err
		}
		for _, d := range decks {
			if d.MaterialKey == "" {
				continue
			}
			if err := svc.files.Delete(ctx, d.MaterialKey); err != nil {
				utils.TrackError("storage", "material_delete_failed")
			}
		}
	}
	return svc.decks.DeleteByUser(ctx, userID)
}

func (svc *FlashcardService) save(ctx context.Context, deck *model.FlashcardDeck) error {
	deck.UpdatedAt = svc.now().UTC()
	err := svc.decks.SaveDeck(ctx, deck)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDeckNotFound
	}
	return err
}

func (svc *FlashcardService) AddCard(ctx context.Context, userID, deckID string, in CardInput) (*model.Flashcard, error) {
	card, err := in.card()
	if err != nil {
		return nil, err
	}
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if hasFront(deck.Cards, card.Front, "") {
		return nil, ErrDuplicateCard
	}
	card.ID = uuid.NewString()
	deck.Cards = append(deck.Cards, card)
	if err := svc.save(ctx, deck); err != nil {
		return nil, err
	}
	return &card, nil
}

func (svc *FlashcardService) UpdateCard(ctx context.Context, userID, deckID, cardID string, in CardInput) (*model.Flashcard, error) {
	card, err := in.card()
	if err != nil {
		return nil, err
	}
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	i := deck.CardIndex(cardID)
	if i < 0 {
		return nil, ErrCardNotFound
	}
	if hasFront(deck.Cards, card.Front, cardID) {
		return nil, ErrDuplicateCard
	}
	card.ID = cardID
	card.Learned = deck.Cards[i].Learned
	deck.Cards[i] = card
	if err := svc.save(ctx, deck); err != nil {
		return nil, err
	}
	return &card, nil
}

func (svc *FlashcardService) DeleteCard(ctx context.Context, userID, deckID, cardID string) (*model.FlashcardDeck, error) {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	i := deck.CardIndex(cardID)
	if i < 0 {
		return nil, ErrCardNotFound
	}
	deck.Cards = append(deck.Cards[:i], deck.Cards[i+1:]...)
	return deck, svc.save(ctx, deck)
}

// SetLearned marks a card; learning a card for the first time awards XP.
func (svc *FlashcardService) SetLearned(ctx context.Context, userID, deckID, cardID string, learned bool) (*model.FlashcardDeck, error) {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	i := deck.CardIndex(cardID)
	if i < 0 {
		return nil, ErrCardNotFound
	}
	if deck.Cards[i].Learned == learned {
		return deck, nil
	}
	deck.Cards[i].Learned = learned
	if err := svc.save(ctx, deck); err != nil {
		return nil, err
	}
	if learned {
		svc.profiles.award(ctx, userID, model.XPCardLearned, "card_learned")
	}
	return deck, nil
}

func (svc *FlashcardService) ResetProgress(ctx context.Context, userID, deckID string) (*model.FlashcardDeck, error) {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	for i := range deck.Cards {
		deck.Cards[i].Learned = false
	}
	return deck, svc.save(ctx, deck)
}

type GenerateInput struct {
	Topic    string
	Count    int
	Language string
}

// GenerateCards asks the AI for cards about a topic and appends the ones
// whose front is new to the deck. It returns the added cards.
func (svc *FlashcardService) GenerateCards(ctx context.Context, userID, deckID string, in GenerateInput) ([]model.Flashcard, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	count := in.Count
	if count <= 0 {
		count = DefaultGenerateCount
	}
	if count > MaxGenerateCount {
		count = MaxGenerateCount
	}
	lang := in.Language
	if lang != utils.LangVietnamese && lang != utils.LangEnglish {
		lang = utils.DetectLanguage(topic)
	}

	reply, err := svc.gen.Generate(ctx, ai.FlashcardPrompt(topic, count, lang))
	if err != nil {
		utils.TrackError("ai", "flashcard_generation_failed")
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	parsed, err := cardgen.ParseMarkdownTable(reply)
	if err != nil {
		utils.TrackError("ai", "flashcard_parse_failed")
		return nil, ErrGenerationFailed
	}

	added := withIDs(cardgen.Dedupe(deck.Cards, parsed))
	if len(added) == 0 {
		return nil, ErrNoNewCards
	}
	deck.Cards = append(deck.Cards, added...)
	if err := svc.save(ctx, deck); err != nil {
		return nil, err
	}

	publish(ctx, svc.events, events.New(events.CardsGenerated, userID,
		map[string]any{"deck_id": deck.ID, "count": len(added)}))
	return added, nil
}

// ShareDeck returns the deck's share code, creating one if needed.
func (svc *FlashcardService) ShareDeck(ctx context.Context, userID, deckID string) (string, error) {
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return "", err
	}
	if deck.ShareCode != "" {
		return deck.ShareCode, nil
	}
	code, err := gonanoid.Generate(shareCodeAlphabet, shareCodeLength)
	if err != nil {
		return "", fmt.Errorf("generating share code: %w", err)
	}
	deck.ShareCode = code
	if err := svc.save(ctx, deck); err != nil {
		return "", err
	}
	return code, nil
}

// ImportSharedDeck copies a shared deck into the caller's account with all
// progress cleared.
func (svc *FlashcardService) ImportSharedDeck(ctx context.Context, userID, code string) (*model.FlashcardDeck, error) {
	src, err := svc.decks.GetDeckByShareCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrShareCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	cards := make([]model.Flashcard, len(src.Cards))
	copy(cards, src.Cards)
	for i := range cards {
		cards[i].ID = uuid.NewString()
		cards[i].Learned = false
	}

	now := svc.now().UTC()
	deck := &model.FlashcardDeck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       src.Title,
		Description: src.Description,
		Cards:       cards,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.decks.CreateDeck(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

type MaterialInfo struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadMaterial stores a text file for the deck, replacing any previous one.
func (svc *FlashcardService) UploadMaterial(ctx context.Context, userID, deckID, filename string, body io.Reader) (*MaterialInfo, error) {
	if svc.files == nil {
		return nil, ErrStorageDisabled
	}
	contentType, ok := materialContentType(filename)
	if !ok {
		return nil, ErrUnsupportedFile
	}
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	key := path.Join("materials", userID, deckID, uuid.NewString()+path.Ext(filename))
	if err := svc.files.Save(ctx, key, body, contentType); err != nil {
		utils.TrackError("storage", "material_upload_failed")
		return nil, err
	}
	old := deck.MaterialKey
	deck.MaterialKey = key
	if err := svc.save(ctx, deck); err != nil {
		return nil, err
	}
	if old != "" {
		_ = svc.files.Delete(ctx, old)
	}

	url, err := svc.files.PresignedURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &MaterialInfo{Key: key, URL: url}, nil
}

// GenerateFromMaterial uses the deck's uploaded material as the topic.
func (svc *FlashcardService) GenerateFromMaterial(ctx context.Context, userID, deckID string, count int, language string) ([]model.Flashcard, error) {
	if svc.files == nil {
		return nil, ErrStorageDisabled
	}
	deck, err := svc.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if deck.MaterialKey == "" {
		return nil, ErrNoMaterial
	}
	text, err := svc.files.Read(ctx, deck.MaterialKey, maxMaterialBytes)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(text)) == "" {
		return nil, ErrNoMaterial
	}
	return svc.GenerateCards(ctx, userID, deckID, GenerateInput{Topic: string(text), Count: count, Language: language})
}

func materialContentType(filename string) (string, bool) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".txt":
		return "text/plain; charset=utf-8", true
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8", true
	}
	return "", false
}

func hasFront(cards []model.Flashcard, front, exceptID string) bool {
	key := utils.NormalizeFront(front)
	for _, c := range cards {
		if c.ID != exceptID && utils.NormalizeFront(c.Front) == key {
			return true
		}
	}
	return false
}

func withIDs(cards []model.Flashcard) []model.Flashcard {
	for i := range cards {
		cards[i].ID = uuid.NewString()
		cards[i].Learned = false
	}
	return cards
}

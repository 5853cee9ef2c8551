package dto

import (
	"time"

	"studyflow/model"
	"studyflow/usecase"
)

type CardRequest struct {
	Front              string `json:"front" binding:"max=500"`
	Back               string `json:"back" binding:"max=2000"`
	Example            string `json:"example" binding:"max=2000"`
	ExampleTranslation string `json:"example_translation" binding:"max=2000"`
}

func (r CardRequest) Input() usecase.CardInput {
	return usecase.CardInput{
		Front:              r.Front,
		Back:               r.Back,
		Example:            r.Example,
		ExampleTranslation: r.ExampleTranslation,
	}
}

type CreateDeckRequest struct {
	Title       string        `json:"title" binding:"required,notblank,max=200"`
	Description string        `json:"description" binding:"max=1000"`
	Cards       []CardRequest `json:"cards" binding:"max=500,dive"`
}

func (r CreateDeckRequest) CardInputs() []usecase.CardInput {
	out := make([]usecase.CardInput, len(r.Cards))
	for i, c := range r.Cards {
		out[i] = c.Input()
	}
	return out
}

type UpdateDeckRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type SetLearnedRequest struct {
	Learned *bool `json:"learned" binding:"required"`
}

type GenerateCardsRequest struct {
	Topic    string `json:"topic" binding:"max=4000"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=50"`
	Language string `json:"language" binding:"omitempty,oneof=vi en"`
}

type GenerateFromMaterialRequest struct {
	Count    int    `json:"count" binding:"omitempty,min=1,max=50"`
	Language string `json:"language" binding:"omitempty,oneof=vi en"`
}

type ImportDeckRequest struct {
	Code string `json:"code" binding:"required"`
}

type GeneratedCardsResponse struct {
	Added []model.Flashcard `json:"added"`
	Count int               `json:"count"`
}

// DeckSummary is a deck without its cards, used for listings.
type DeckSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Total       int       `json:"total"`
	Learned     int       `json:"learned"`
	ShareCode   string    `json:"share_code,omitempty"`
	HasMaterial bool      `json:"has_material"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToDeckSummaries(decks []*model.FlashcardDeck) []DeckSummary {
	out := make([]DeckSummary, len(decks))
	for i, d := range decks {
		out[i] = DeckSummary{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Total:       d.Total,
			Learned:     d.Learned,
			ShareCode:   d.ShareCode,
			HasMaterial: d.MaterialKey != "",
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		}
	}
	return out
}

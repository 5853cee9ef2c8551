package model

import "time"

type Flashcard struct {
	ID                 string `bson:"id" json:"id"`
	Front              string `bson:"front" json:"front"`
	Back               string `bson:"back" json:"back"`
	Example            string `bson:"example,omitempty" json:"example,omitempty"`
	ExampleTranslation string `bson:"example_translation,omitempty" json:"example_translation,omitempty"`
	Learned            bool   `bson:"learned" json:"learned"`
}

type FlashcardDeck struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	UserID      string      `bson:"user_id" json:"user_id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Cards       []Flashcard `bson:"cards" json:"cards"`
	Total       int         `bson:"total" json:"total"`
	Learned     int         `bson:"learned" json:"learned"`
	ShareCode   string      `bson:"share_code,omitempty" json:"share_code,omitempty"`
	MaterialKey string      `bson:"material_key,omitempty" json:"material_key,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}

// Recount keeps Total and Learned in line with the embedded cards.
func (d *FlashcardDeck) Recount() {
	d.Total = len(d.Cards)
	learned := 0
	for _, c := range d.Cards {
		if c.Learned {
			learned++
		}
	}
	d.Learned = learned
}

// CardIndex returns the position of the card with the given id or -1.
func (d *FlashcardDeck) CardIndex(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

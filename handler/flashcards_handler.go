package handler

import (
	"errors"
	"net/http"

	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type FlashcardHandler struct {
	cards          *usecase.FlashcardService
	maxUploadBytes int64
}

func NewFlashcardHandler(cards *usecase.FlashcardService, maxUploadBytes int64) *FlashcardHandler {
	return &FlashcardHandler{cards: cards, maxUploadBytes: maxUploadBytes}
}

func (h *FlashcardHandler) ListDecks(c *gin.Context) {
	decks, err := h.cards.ListDecks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"decks": dto.ToDeckSummaries(decks)})
}

func (h *FlashcardHandler) CreateDeck(c *gin.Context) {
	var req dto.CreateDeckRequest
	if !bindJSON(c, &req) {
		return
	}
	deck, err := h.cards.CreateDeck(c.Request.Context(), middleware.UserID(c), req.Title, req.Description, req.CardInputs())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, deck)
}

func (h *FlashcardHandler) GetDeck(c *gin.Context) {
	deck, err := h.cards.GetDeck(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, deck)
}

func (h *FlashcardHandler) UpdateDeck(c *gin.Context) {
	var req dto.UpdateDeckRequest
	if !bindJSON(c, &req) {
		return
	}
	deck, err := h.cards.UpdateDeck(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, deck)
}

func (h *FlashcardHandler) DeleteDeck(c *gin.Context) {
	if err := h.cards.DeleteDeck(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Deck deleted")
}

func (h *FlashcardHandler) AddCard(c *gin.Context) {
	var req dto.CardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.AddCard(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, card)
}

func (h *FlashcardHandler) UpdateCard(c *gin.Context) {
	var req dto.CardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.UpdateCard(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("cardId"), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, card)
}

func (h *FlashcardHandler) DeleteCard(c *gin.Context) {
	deck, err := h.cards.DeleteCard(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("cardId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, deck)
}

func (h *FlashcardHandler) SetLearned(c *gin.Context) {
	var req dto.SetLearnedRequest
	if !bindJSON(c, &req) {
		return
	}
	deck, err := h.cards.SetLearned(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("cardId"), *req.Learned)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, deck)
}

func (h *FlashcardHandler) ResetProgress(c *gin.Context) {
	deck, err := h.cards.ResetProgress(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, deck)
}

func (h *FlashcardHandler) GenerateCards(c *gin.Context) {
	var req dto.GenerateCardsRequest
	if !bindJSON(c, &req) {
		return
	}
	added, err := h.cards.GenerateCards(c.Request.Context(), middleware.UserID(c), c.Param("id"), usecase.GenerateInput{
		Topic:    req.Topic,
		Count:    req.Count,
		Language: req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, dto.GeneratedCardsResponse{Added: added, Count: len(added)})
}

func (h *FlashcardHandler) ShareDeck(c *gin.Context) {
	code, err := h.cards.ShareDeck(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"share_code": code})
}

func (h *FlashcardHandler) ImportDeck(c *gin.Context) {
	var req dto.ImportDeckRequest
	if !bindJSON(c, &req) {
		return
	}
	deck, err := h.cards.ImportSharedDeck(c.Request.Context(), middleware.UserID(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, deck)
}

// UploadMaterial accepts a multipart "file" field with a text or markdown
// document.
func (h *FlashcardHandler) UploadMaterial(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &utils.Response{Error: "File is too large"})
			return
		}
		utils.BadRequest(c, "A file field is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	info, err := h.cards.UploadMaterial(c.Request.Context(), middleware.UserID(c), c.Param("id"), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, info)
}

func (h *FlashcardHandler) GenerateFromMaterial(c *gin.Context) {
	var req dto.GenerateFromMaterialRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	added, err := h.cards.GenerateFromMaterial(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Count, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, dto.GeneratedCardsResponse{Added: added, Count: len(added)})
}

package handler

import (
	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chats *usecase.ChatService
}

func NewChatHandler(chats *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chats.ListSessions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"sessions": sessions})
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req dto.CreateChatRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	session, err := h.chats.CreateSession(c.Request.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, session)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.chats.GetSession(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, session)
}

func (h *ChatHandler) RenameSession(c *gin.Context) {
	var req dto.RenameChatRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.chats.RenameSession(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, session)
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.chats.DeleteSession(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Chat deleted")
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.chats.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.chats.SendMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, res)
}

package handler

import (
	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/model"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *usecase.UserService
}

func NewAuthHandler(users *usecase.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		utils.TrackAuthAttempt("failure", "validation")
		return
	}

	res, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}, clientInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, dto.ToAuthResponse(res.User, res.Tokens, false))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		utils.TrackAuthAttempt("failure", "validation")
		return
	}

	res, err := h.users.Login(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Requires2FA {
		utils.TrackAuthAttempt("pending", "2fa_required")
	}
	utils.Success(c, dto.ToAuthResponse(res.User, res.Tokens, res.Requires2FA))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if err := h.users.Logout(c.Request.Context(), middleware.Claims(c), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, dto.ToUserResponse(user))
}

func (h *AuthHandler) ListSessions(c *gin.Context) {
	sessions, err := h.users.ListSessions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	current := ""
	if claims := middleware.Claims(c); claims != nil {
		current = claims.SessionID
	}
	utils.Success(c, gin.H{"sessions": dto.ToSessionResponses(sessions, current)})
}

func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	n, err := h.users.RevokeAllSessions(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"revoked": n})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req dto.DeleteAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.DeleteAccount(c.Request.Context(), middleware.Claims(c), req.Password); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Account deleted")
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"studyflow/middleware"
	"studyflow/model"
	"studyflow/services"
	"studyflow/services/cardgen"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	kind   string
}

// errorTable maps usecase sentinels to HTTP statuses. The sentinel's own
// message is sent to the client.
var errorTable = []errorMapping{
	{usecase.ErrUsernameTaken, http.StatusConflict, "auth"},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "auth"},
	{usecase.ErrInvalid2FACode, http.StatusUnauthorized, "auth"},
	{usecase.Err2FANotSetup, http.StatusBadRequest, "auth"},
	{usecase.Err2FAAlreadyEnabled, http.StatusConflict, "auth"},
	{usecase.ErrSessionRevoked, http.StatusUnauthorized, "auth"},
	{usecase.ErrUserNotFound, http.StatusNotFound, "auth"},
	{services.ErrTokenExpired, http.StatusUnauthorized, "auth"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "auth"},
	{services.ErrWrongTokenType, http.StatusUnauthorized, "auth"},

	{usecase.ErrInvalidTimezone, http.StatusBadRequest, "validation"},
	{usecase.ErrInvalidDailyGoal, http.StatusBadRequest, "validation"},

	{usecase.ErrChatNotFound, http.StatusNotFound, "chat"},
	{usecase.ErrEmptyMessage, http.StatusBadRequest, "validation"},
	{usecase.ErrChatBusy, http.StatusConflict, "chat"},

	{usecase.ErrDeckNotFound, http.StatusNotFound, "flashcards"},
	{usecase.ErrCardNotFound, http.StatusNotFound, "flashcards"},
	{usecase.ErrDuplicateCard, http.StatusConflict, "flashcards"},
	{usecase.ErrInvalidCard, http.StatusBadRequest, "validation"},
	{usecase.ErrEmptyTitle, http.StatusBadRequest, "validation"},
	{usecase.ErrEmptyTopic, http.StatusBadRequest, "validation"},
	{usecase.ErrShareCodeNotFound, http.StatusNotFound, "flashcards"},
	{usecase.ErrNoMaterial, http.StatusBadRequest, "flashcards"},
	{usecase.ErrUnsupportedFile, http.StatusBadRequest, "validation"},
	{usecase.ErrNoNewCards, http.StatusConflict, "flashcards"},
	{usecase.ErrStorageDisabled, http.StatusServiceUnavailable, "storage"},
	{usecase.ErrAIUnavailable, http.StatusBadGateway, "ai"},
	{usecase.ErrGenerationFailed, http.StatusBadGateway, "ai"},
	{cardgen.ErrNoCards, http.StatusBadGateway, "ai"},

	{usecase.ErrHabitNotFound, http.StatusNotFound, "habits"},
	{usecase.ErrTaskNotFound, http.StatusNotFound, "tasks"},
	{usecase.ErrInvalidPriority, http.StatusBadRequest, "validation"},
	{usecase.ErrInvalidEstimate, http.StatusBadRequest, "validation"},
	{usecase.ErrTaskAlreadyClosed, http.StatusConflict, "tasks"},

	{model.ErrInvalidMode, http.StatusBadRequest, "validation"},
	{model.ErrInvalidDuration, http.StatusBadRequest, "validation"},
	{usecase.ErrTimerBusy, http.StatusConflict, "pomodoro"},
	{usecase.ErrProfileBusy, http.StatusConflict, "profile"},
}

// respondError writes the response for err and aborts the request.
// Unknown errors are logged and become a 500 without leaking details.
func respondError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			utils.TrackError(m.kind, m.err.Error())
			writeError(c, m.status, m.err.Error())
			return
		}
	}

	utils.TrackError("internal", c.FullPath())
	slog.Error("request failed",
		"request_id", c.GetString(middleware.ContextRequestID),
		"path", c.FullPath(),
		"error", err,
	)
	utils.InternalError(c, "Something went wrong, please try again")
}

func writeError(c *gin.Context, status int, message string) {
	switch status {
	case http.StatusBadRequest:
		utils.BadRequest(c, message)
	case http.StatusUnauthorized:
		utils.Unauthorized(c, message)
	case http.StatusNotFound:
		utils.NotFound(c, message)
	case http.StatusConflict:
		utils.Conflict(c, message)
	case http.StatusBadGateway:
		utils.BadGateway(c, message)
	case http.StatusServiceUnavailable:
		utils.ServiceUnavailable(c, message)
	default:
		utils.InternalError(c, message)
	}
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.TrackError("validation", "invalid_request")
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func clientInfo(c *gin.Context) usecase.ClientInfo {
	return usecase.ClientInfo{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}

package handler

import (
	"context"
	"time"

	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/model"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type PomodoroHandler struct {
	timer *usecase.PomodoroService
	now   func() time.Time
}

func NewPomodoroHandler(timer *usecase.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{timer: timer, now: time.Now}
}

type timerAction func(ctx context.Context, userID string) (*model.PomodoroState, error)

func (h *PomodoroHandler) respond(c *gin.Context, s *model.PomodoroState, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, dto.ToPomodoroView(s, h.now()))
}

// action adapts a body-less timer operation to a gin handler.
func (h *PomodoroHandler) action(fn timerAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := fn(c.Request.Context(), middleware.UserID(c))
		h.respond(c, s, err)
	}
}

func (h *PomodoroHandler) GetState() gin.HandlerFunc { return h.action(h.timer.GetState) }
func (h *PomodoroHandler) Start() gin.HandlerFunc    { return h.action(h.timer.Start) }
func (h *PomodoroHandler) Pause() gin.HandlerFunc    { return h.action(h.timer.Pause) }
func (h *PomodoroHandler) Reset() gin.HandlerFunc    { return h.action(h.timer.Reset) }
func (h *PomodoroHandler) Skip() gin.HandlerFunc     { return h.action(h.timer.Skip) }
func (h *PomodoroHandler) Complete() gin.HandlerFunc { return h.action(h.timer.Complete) }

func (h *PomodoroHandler) SwitchMode(c *gin.Context) {
	var req dto.SwitchModeRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.timer.SwitchMode(c.Request.Context(), middleware.UserID(c), req.Mode)
	h.respond(c, s, err)
}

func (h *PomodoroHandler) SelectTask(c *gin.Context) {
	var req dto.SelectTaskRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	s, err := h.timer.SelectTask(c.Request.Context(), middleware.UserID(c), req.TaskID)
	h.respond(c, s, err)
}

func (h *PomodoroHandler) UpdateDurations(c *gin.Context) {
	var req dto.DurationsRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.timer.UpdateDurations(c.Request.Context(), middleware.UserID(c),
		req.FocusMinutes, req.ShortBreakMinutes, req.LongBreakMinutes)
	h.respond(c, s, err)
}

package handler

import (
	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	habits *usecase.HabitService
}

func NewHabitHandler(habits *usecase.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

func (h *HabitHandler) ListHabits(c *gin.Context) {
	habits, err := h.habits.ListHabits(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"habits": habits})
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req dto.HabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit, err := h.habits.CreateHabit(c.Request.Context(), middleware.UserID(c), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, habit)
}

func (h *HabitHandler) GetHabit(c *gin.Context) {
	habit, err := h.habits.GetHabit(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, habit)
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var req dto.UpdateHabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit, err := h.habits.UpdateHabit(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, habit)
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habits.DeleteHabit(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Habit deleted")
}

func (h *HabitHandler) ToggleToday(c *gin.Context) {
	habit, err := h.habits.ToggleToday(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, habit)
}

package handler

import (
	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles *usecase.ProfileService
	stats    *usecase.StatsService
}

func NewProfileHandler(profiles *usecase.ProfileService, stats *usecase.StatsService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, stats: stats}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profiles.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, p)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UpdateProfile(c.Request.Context(), middleware.UserID(c), usecase.ProfileUpdate{
		Name:      req.Name,
		DailyGoal: req.DailyGoal,
		Timezone:  req.Timezone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, p)
}

// GetStats returns the home dashboard counters.
func (h *ProfileHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GetStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, stats)
}

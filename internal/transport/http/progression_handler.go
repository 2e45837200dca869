package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/v1/profile
func (h *Handler) CreateProfile(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	profile, err := h.uc.Progression.CreateProfile(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":       profile.UserID,
		"xp":            profile.XP,
		"level":         profile.Level,
		"current_title": profile.CurrentTitle,
	})
}

// GET /api/v1/progress
func (h *Handler) GetProgress(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	progress, err := h.uc.Progression.GetProgress(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

type awardXPReq struct {
	Amount *int64 `json:"amount" binding:"required"`
}

// POST /api/v1/progress/xp
func (h *Handler) AwardXP(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	var req awardXPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	award, err := h.uc.Progression.AwardXP(c, userID, *req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, award)
}

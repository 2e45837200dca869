package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/v1/unlocks
func (h *Handler) GetUnlocks(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	summary, err := h.uc.Unlocks.GetUnlocks(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUnlockSummaryView(summary))
}

// GET /api/v1/events streams the caller's level-up and unlock events as
// server-sent events until the client goes away.
func (h *Handler) StreamEvents(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, err := h.events.Subscribe(ctx, userID)
	if err != nil {
		h.log.Error("subscribe to events", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		e, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(string(e.Kind), e)
		return true
	})
}

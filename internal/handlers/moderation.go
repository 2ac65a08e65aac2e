package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type ModerationHandler struct {
	moderationService services.ModerationService
}

func NewModerationHandler(moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (mh *ModerationHandler) ModerateGraph(c *gin.Context) {
	moderate(c, mh.moderationService.ModerateGraph)
}

func (mh *ModerationHandler) ModerateReview(c *gin.Context) {
	moderate(c, mh.moderationService.ModerateReview)
}

func (mh *ModerationHandler) ModerateComment(c *gin.Context) {
	moderate(c, mh.moderationService.ModerateComment)
}

func moderate(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, status types.ModerationStatus) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Status types.ModerationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moderation status"})
		return
	}
	if err := fn(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moderated", "status": req.Status})
}

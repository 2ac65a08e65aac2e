package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/requestdata"
	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type LiveReactionHandler struct {
	liveService services.LiveReactionService
}

func NewLiveReactionHandler(liveService services.LiveReactionService) *LiveReactionHandler {
	return &LiveReactionHandler{liveService: liveService}
}

func (lh *LiveReactionHandler) Start(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req struct {
		MovieID uuid.UUID `json:"movie_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	state, err := lh.liveService.StartSession(c.Request.Context(), rd.UserID, req.MovieID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (lh *LiveReactionHandler) SetScore(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var req struct {
		Score float64 `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	state, err := lh.liveService.SetScore(c.Request.Context(), rd.UserID, sessionID, req.Score)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (lh *LiveReactionHandler) Pause(c *gin.Context) {
	lh.transition(c, lh.liveService.PauseSession)
}

func (lh *LiveReactionHandler) Resume(c *gin.Context) {
	lh.transition(c, lh.liveService.ResumeSession)
}

func (lh *LiveReactionHandler) Reset(c *gin.Context) {
	lh.transition(c, lh.liveService.ResetSession)
}

func (lh *LiveReactionHandler) GetState(c *gin.Context) {
	lh.transition(c, lh.liveService.GetState)
}

func (lh *LiveReactionHandler) Finish(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	graph, err := lh.liveService.FinishSession(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"graph": graph})
}

func (lh *LiveReactionHandler) transition(c *gin.Context, fn func(ctx context.Context, userID, sessionID uuid.UUID) (*services.SessionState, error)) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	state, err := fn(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

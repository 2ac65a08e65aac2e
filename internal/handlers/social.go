package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/requestdata"
	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type SocialHandler struct {
	socialService services.SocialService
}

func NewSocialHandler(socialService services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (sh *SocialHandler) Follow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.FollowUser(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "followed"})
}

func (sh *SocialHandler) Unfollow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.UnfollowUser(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (sh *SocialHandler) ListFollowers(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	users, err := sh.socialService.ListFollowers(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": users})
}

func (sh *SocialHandler) ListFollowing(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	users, err := sh.socialService.ListFollowing(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": users})
}

func (sh *SocialHandler) LikeGraph(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	graphID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.LikeGraph(c.Request.Context(), userID, graphID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "liked"})
}

func (sh *SocialHandler) UnlikeGraph(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	graphID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.UnlikeGraph(c.Request.Context(), userID, graphID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unliked"})
}

func (sh *SocialHandler) LikeReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.LikeReview(c.Request.Context(), userID, reviewID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "liked"})
}

func (sh *SocialHandler) UnlikeReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.socialService.UnlikeReview(c.Request.Context(), userID, reviewID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unliked"})
}

func (sh *SocialHandler) CommentOnGraph(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	graphID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	comment, err := sh.socialService.CommentOnGraph(c.Request.Context(), userID, graphID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (sh *SocialHandler) CommentOnReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	comment, err := sh.socialService.CommentOnReview(c.Request.Context(), userID, reviewID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (sh *SocialHandler) ListGraphComments(c *gin.Context) {
	graphID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := sh.socialService.ListGraphComments(c.Request.Context(), graphID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (sh *SocialHandler) ListReviewComments(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := sh.socialService.ListReviewComments(c.Request.Context(), reviewID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

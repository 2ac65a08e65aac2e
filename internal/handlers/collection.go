package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/services"
)

type CollectionHandler struct {
	collectionService services.CollectionService
}

func NewCollectionHandler(collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (ch *CollectionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    *bool  `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	collection, err := ch.collectionService.CreateCollection(c.Request.Context(), userID, req.Name, req.Description, isPublic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

func (ch *CollectionHandler) ListForUser(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	collections, err := ch.collectionService.ListUserCollections(c.Request.Context(), ownerID, viewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (ch *CollectionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ch.collectionService.DeleteCollection(c.Request.Context(), userID, collectionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (ch *CollectionHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		MovieID uuid.UUID  `json:"movie_id"`
		GraphID *uuid.UUID `json:"graph_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	item, err := ch.collectionService.AddItem(c.Request.Context(), userID, collectionID, req.MovieID, req.GraphID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (ch *CollectionHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	if err := ch.collectionService.RemoveItem(c.Request.Context(), userID, collectionID, itemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (ch *CollectionHandler) ListItems(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := ch.collectionService.ListItems(c.Request.Context(), viewerID, collectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

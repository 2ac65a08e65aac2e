package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/requestdata"
	"github.com/filmpulse/filmpulse-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.SSEClient // keyed by user ID, one stream per user
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	userID := rd.UserID
	sh.log.Info("SSE stream open", "userID", userID)

	sh.mu.Lock()
	// A reconnect replaces the previous stream.
	if existing, ok := sh.clients[userID]; ok {
		sh.hub.CloseClient(existing)
		delete(sh.clients, userID)
	}
	client := sh.hub.NewSSEClient(userID)
	sh.clients[userID] = client
	sh.mu.Unlock()

	// Every stream carries the user's own notification channel.
	sh.hub.AddChannel(client, sse.UserChannel(userID))

	sh.hub.ServeHTTP(c.Writer, c.Request, client)

	sh.mu.Lock()
	if sh.clients[userID] == client {
		delete(sh.clients, userID)
	}
	sh.mu.Unlock()
	sh.hub.CloseClient(client)
}

func (sh *SSEHandler) Subscribe(c *gin.Context) {
	client, req, ok := sh.clientAndChannel(c)
	if !ok {
		return
	}
	sh.hub.AddChannel(client, req)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": req})
}

func (sh *SSEHandler) Unsubscribe(c *gin.Context) {
	client, req, ok := sh.clientAndChannel(c)
	if !ok {
		return
	}
	sh.hub.RemoveChannel(client, req)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": req})
}

func (sh *SSEHandler) clientAndChannel(c *gin.Context) (*sse.SSEClient, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, "", false
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return nil, "", false
	}

	sh.mu.RLock()
	client, exists := sh.clients[rd.UserID]
	sh.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection"})
		return nil, "", false
	}
	return client, req.Channel, true
}

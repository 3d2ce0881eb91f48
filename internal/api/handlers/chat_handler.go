package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wasteless-ai/backend-go/internal/chat"
)

type ChatHandler struct {
	assistant *chat.Assistant
}

func NewChatHandler(assistant *chat.Assistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.assistant.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) GetGreeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"greeting": h.assistant.Greeting(c.Request.Context())})
}

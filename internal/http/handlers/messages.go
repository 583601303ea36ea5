package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunmmi/whisper/internal/chat"
	"github.com/kunmmi/whisper/internal/http/middleware"
	"github.com/kunmmi/whisper/internal/ws"
)

// MessageHandler is the REST fallback path. It delegates to the same message
// pipeline and read-state tracker the socket router uses, so both transports
// produce identical payloads.
type MessageHandler struct {
	Svc *chat.Service
	Hub *ws.Hub
}

type sendMessageReq struct {
	Content          string  `json:"content"`
	ReplyToMessageID *uint   `json:"reply_to_message_id"`
	MediaURL         *string `json:"media_url"`
	MediaType        *string `json:"media_type"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	payload, err := h.Svc.SendMessage(chat.SendMessageInput{
		ChatID:           chatID,
		SenderID:         middleware.MustUserID(c),
		Content:          req.Content,
		ReplyToMessageID: req.ReplyToMessageID,
		MediaURL:         req.MediaURL,
		MediaType:        req.MediaType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	// Members with live connections still get the broadcast; the REST caller
	// additionally gets the payload back directly.
	h.Hub.BroadcastToRoom(chatID, ws.Event{Type: ws.EventReceiveMessage, Data: payload})

	c.JSON(http.StatusCreated, gin.H{"message": payload})
}

func (h *MessageHandler) List(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	messages, err := h.Svc.ListMessages(chatID, middleware.MustUserID(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	status, err := h.Svc.MarkRead(chatID, middleware.MustUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Messages marked as read",
		"readStatus": status,
	})
}

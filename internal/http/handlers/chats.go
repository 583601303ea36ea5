package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunmmi/whisper/internal/chat"
	"github.com/kunmmi/whisper/internal/http/middleware"
)

type ChatHandler struct {
	Svc *chat.Service
}

func chatIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil || id64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return 0, false
	}
	return uint(id64), true
}

type createPrivateReq struct {
	Username string `json:"username" binding:"required"`
}

func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	var req createPrivateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	summary, created, err := h.Svc.CreatePrivateChat(middleware.MustUserID(c), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	msg := "Chat already exists"
	if created {
		status = http.StatusCreated
		msg = "Private chat created successfully"
	}
	c.JSON(status, gin.H{"chat": summary, "message": msg})
}

type createGroupReq struct {
	Name      string   `json:"name" binding:"required"`
	Usernames []string `json:"usernames"`
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	result, err := h.Svc.CreateGroup(middleware.MustUserID(c), req.Name, req.Usernames)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"chat":        result.Chat,
		"message":     "Group created successfully",
		"added_users": result.AddedUsers,
	}
	if len(result.NotFoundUsers) > 0 {
		resp["not_found_users"] = result.NotFoundUsers
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.Svc.ListChats(middleware.MustUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats, "count": len(chats)})
}

type memberReq struct {
	Username string `json:"username" binding:"required"`
}

func (h *ChatHandler) AddUser(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	user, memberCount, err := h.Svc.AddUserToGroup(chatID, middleware.MustUserID(c), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "User added to group successfully",
		"user":         user,
		"member_count": memberCount,
	})
}

func (h *ChatHandler) RemoveUser(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	user, err := h.Svc.RemoveUserFromGroup(chatID, middleware.MustUserID(c), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User removed from group successfully",
		"user":    user,
	})
}

func (h *ChatHandler) Leave(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.LeaveGroup(chatID, middleware.MustUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left group successfully"})
}

type renameReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *ChatHandler) Rename(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	updated, err := h.Svc.RenameGroup(chatID, middleware.MustUserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Group renamed successfully",
		"chat":    gin.H{"id": updated.ID, "name": updated.Name},
	})
}

func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteChat(chatID, middleware.MustUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}

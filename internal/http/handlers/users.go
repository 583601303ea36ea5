package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kunmmi/whisper/internal/http/middleware"
	"github.com/kunmmi/whisper/internal/store"
	"github.com/kunmmi/whisper/internal/ws"
)

type UserHandler struct {
	Store *store.Store
	Hub   *ws.Hub
}

func (h *UserHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("username"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username query parameter is required"})
		return
	}

	users, err := h.Store.SearchUsers(query, middleware.MustUserID(c), 20)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]gin.H, 0, len(users))
	for i := range users {
		results = append(results, gin.H{
			"id":                  users[i].ID,
			"username":            users[i].Username,
			"profile_picture_url": users[i].ProfilePictureURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": results, "count": len(results)})
}

func (h *UserHandler) OnlineStatus(c *gin.Context) {
	userID64, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	userID := uint(userID64)

	user, err := h.Store.FindUserByID(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   userID,
		"username": user.Username,
		"isOnline": h.Hub.IsOnline(userID),
	})
}

// OnlineStatuses answers presence for a comma-separated id list.
func (h *UserHandler) OnlineStatuses(c *gin.Context) {
	raw := c.Query("userIds")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIds query parameter is required"})
		return
	}

	statuses := make([]gin.H, 0)
	for _, part := range strings.Split(raw, ",") {
		id64, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		userID := uint(id64)

		var username *string
		user, err := h.Store.FindUserByID(userID)
		if err != nil {
			writeError(c, err)
			return
		}
		if user != nil {
			username = &user.Username
		}
		statuses = append(statuses, gin.H{
			"userId":   userID,
			"username": username,
			"isOnline": h.Hub.IsOnline(userID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses, "count": len(statuses)})
}

type profilePictureReq struct {
	ProfilePictureURL *string `json:"profile_picture_url"`
}

const maxProfilePictureLen = 1_000_000

func (h *UserHandler) UpdateProfilePicture(c *gin.Context) {
	var req profilePictureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	url := req.ProfilePictureURL
	if url != nil && *url == "" {
		url = nil
	}
	if url != nil && len(*url) > maxProfilePictureLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile picture is too large (max 1MB)"})
		return
	}

	user, err := h.Store.UpdateProfilePicture(middleware.MustUserID(c), url)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture updated successfully",
		"user":    publicUser(user),
	})
}

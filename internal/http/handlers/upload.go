package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kunmmi/whisper/internal/models"
)

// UploadHandler stores media on local disk and hands back a URL the message
// pipeline can reference as media_url.
type UploadHandler struct {
	Dir      string
	MaxBytes int64
}

var allowedExtensions = map[string]map[string]bool{
	models.MediaImage: {".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true},
	models.MediaVideo: {".mp4": true, ".webm": true, ".mov": true},
	models.MediaAudio: {".mp3": true, ".ogg": true, ".wav": true, ".m4a": true, ".webm": true},
	models.MediaFile:  nil, // any extension
}

// images stay small; other kinds get the configured cap
const maxImageBytes = 5 << 20

func (h *UploadHandler) Image(c *gin.Context) { h.save(c, models.MediaImage) }
func (h *UploadHandler) Video(c *gin.Context) { h.save(c, models.MediaVideo) }
func (h *UploadHandler) Audio(c *gin.Context) { h.save(c, models.MediaAudio) }
func (h *UploadHandler) File(c *gin.Context)  { h.save(c, models.MediaFile) }

func (h *UploadHandler) save(c *gin.Context, kind string) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	limit := h.MaxBytes
	if kind == models.MediaImage {
		limit = maxImageBytes
	}
	if file.Size <= 0 || file.Size > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit or invalid"})
		return
	}

	// Only the base name matters; never trust client-supplied paths.
	ext := strings.ToLower(filepath.Ext(filepath.Base(file.Filename)))
	if allowed := allowedExtensions[kind]; allowed != nil && !allowed[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File type %s is not allowed for %s uploads", ext, kind)})
		return
	}

	name := fmt.Sprintf("%s-%s%s", kind, uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.Dir, name)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("%s uploaded successfully", strings.ToUpper(kind[:1])+kind[1:]),
		"url":      "/uploads/" + name,
		"filename": name,
	})
}

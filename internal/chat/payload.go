package chat

import (
	"time"

	"github.com/kunmmi/whisper/internal/models"
)

// UserRef is the embedded sender shape used across payloads.
type UserRef struct {
	ID                uint    `json:"id"`
	Username          string  `json:"username"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

type MediaRef struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type ReplyRef struct {
	ID      uint    `json:"id"`
	Content string  `json:"content"`
	Sender  UserRef `json:"sender"`
}

// MessagePayload is the canonical message shape. Both the socket broadcast
// and the REST response are built from this exact struct so the transports
// cannot drift apart.
type MessagePayload struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chatId"`
	Sender    UserRef   `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Media     *MediaRef `json:"media,omitempty"`
	ReplyTo   *ReplyRef `json:"reply_to,omitempty"`
}

func userRef(u *models.User) UserRef {
	return UserRef{ID: u.ID, Username: u.Username, ProfilePictureURL: u.ProfilePictureURL}
}

// buildPayload expects m.Sender and, for replies, m.ReplyTo.Sender to be
// loaded.
func buildPayload(m *models.Message) *MessagePayload {
	p := &MessagePayload{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Sender:    userRef(&m.Sender),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.MediaURL != nil && m.MediaType != nil {
		p.Media = &MediaRef{URL: *m.MediaURL, Type: *m.MediaType}
	}
	if m.ReplyToMessageID != nil && m.ReplyTo != nil {
		p.ReplyTo = &ReplyRef{
			ID:      m.ReplyTo.ID,
			Content: m.ReplyTo.Content,
			Sender:  userRef(&m.ReplyTo.Sender),
		}
	}
	return p
}

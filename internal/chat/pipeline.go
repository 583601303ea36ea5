package chat

import (
	"fmt"
	"strings"

	"github.com/kunmmi/whisper/internal/models"
)

type SendMessageInput struct {
	ChatID           uint
	SenderID         uint
	Content          string
	ReplyToMessageID *uint
	MediaURL         *string
	MediaType        *string
}

// SendMessage validates, persists and formats a message. It is the single
// pipeline behind both the socket send_message event and the REST endpoint;
// the caller decides whether the returned payload is broadcast, returned
// directly, or both.
func (s *Service) SendMessage(in SendMessageInput) (*MessagePayload, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.MediaURL == nil {
		return nil, Validation("Message content or media is required")
	}

	if in.MediaURL != nil && in.MediaType == nil {
		return nil, Validation("media_type is required when media_url is provided")
	}
	if in.MediaType != nil {
		if in.MediaURL == nil {
			return nil, Validation("media_type requires media_url")
		}
		if !models.ValidMediaType(*in.MediaType) {
			return nil, Validation("media_type must be one of: image, video, file, audio")
		}
	}

	chat, err := s.store.FindChatByID(in.ChatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, NotFound("Chat not found")
	}

	member, err := s.store.IsMember(in.ChatID, in.SenderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, Authorization("You are not a member of this chat")
	}

	if in.ReplyToMessageID != nil {
		replyMsg, err := s.store.FindMessageByID(*in.ReplyToMessageID)
		if err != nil {
			return nil, err
		}
		if replyMsg == nil {
			return nil, NotFound("Reply message not found")
		}
		if replyMsg.ChatID != in.ChatID {
			return nil, Validation("Reply message must be in the same chat")
		}
	}

	msg := models.Message{
		ChatID:           in.ChatID,
		SenderID:         in.SenderID,
		Content:          content,
		ReplyToMessageID: in.ReplyToMessageID,
		MediaURL:         in.MediaURL,
		MediaType:        in.MediaType,
	}
	if err := s.store.CreateMessage(&msg); err != nil {
		return nil, err
	}

	// Reload with sender and reply associations for the canonical payload.
	saved, err := s.store.FindMessageByID(msg.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("message %d vanished after insert", msg.ID)
	}
	return buildPayload(saved), nil
}

// ListMessages returns a page of history (oldest first within the page) and
// then advances the caller's read cursor. Fetch-then-mark: a concurrent
// reader may still see the pre-read unread count, which is acceptable for an
// advisory badge.
func (s *Service) ListMessages(chatID, userID uint, limit, offset int) ([]*MessagePayload, error) {
	if _, err := s.authorizeMember(chatID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.store.MessagesByChat(chatID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Query is newest-first; flip the page so clients render oldest first.
	payloads := make([]*MessagePayload, len(msgs))
	for i := range msgs {
		payloads[len(msgs)-1-i] = buildPayload(&msgs[i])
	}

	if _, err := s.MarkRead(chatID, userID); err != nil {
		return nil, err
	}
	return payloads, nil
}

package store

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kunmmi/whisper/internal/models"
)

// LastMessage is the chat-list preview of the newest message in a chat.
type LastMessage struct {
	ID             uint      `json:"id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	SenderUsername string    `json:"sender_username"`
}

func (s *Store) CreateMessage(m *models.Message) error {
	return s.db.Create(m).Error
}

// FindMessageByID loads a message with its sender and, if it is a reply, the
// replied-to message and that message's sender.
func (s *Store) FindMessageByID(messageID uint) (*models.Message, error) {
	var m models.Message
	err := s.db.
		Preload("Sender").
		Preload("ReplyTo").
		Preload("ReplyTo.Sender").
		First(&m, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MessagesByChat returns the page of the `limit` most recent messages at
// `offset`, newest first. Message id order is the authoritative history order.
func (s *Store) MessagesByChat(chatID uint, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.
		Preload("Sender").
		Preload("ReplyTo").
		Preload("ReplyTo.Sender").
		Where("chat_id = ?", chatID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

func (s *Store) LastMessage(chatID uint) (*LastMessage, error) {
	var lm LastMessage
	res := s.db.
		Table("messages").
		Select("messages.id, messages.content, messages.timestamp, users.username AS sender_username").
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.chat_id = ?", chatID).
		Order("messages.id DESC").
		Limit(1).
		Scan(&lm)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &lm, nil
}

// MaxMessageID returns the highest message id in a chat, or nil for an empty
// chat.
func (s *Store) MaxMessageID(chatID uint) (*uint, error) {
	var row struct{ Max sql.NullInt64 }
	err := s.db.Model(&models.Message{}).
		Select("MAX(id) AS max").
		Where("chat_id = ?", chatID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if !row.Max.Valid {
		return nil, nil
	}
	id := uint(row.Max.Int64)
	return &id, nil
}

// UnreadCount counts messages above the user's read cursor, never counting
// the user's own messages. With no cursor, everything not sent by the user is
// unread.
func (s *Store) UnreadCount(chatID, userID uint) (int64, error) {
	var status models.ChatReadStatus
	err := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&status).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	q := s.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ?", chatID, userID)
	if err == nil && status.LastReadMessageID != nil {
		q = q.Where("id > ?", *status.LastReadMessageID)
	}

	var n int64
	err = q.Count(&n).Error
	return n, err
}

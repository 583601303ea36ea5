package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kunmmi/whisper/internal/models"
)

func (s *Store) ReadStatus(chatID, userID uint) (*models.ChatReadStatus, error) {
	var status models.ChatReadStatus
	err := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// UpsertReadStatus moves the user's read cursor for a chat to messageID.
func (s *Store) UpsertReadStatus(chatID, userID, messageID uint) (*models.ChatReadStatus, error) {
	status := models.ChatReadStatus{
		ChatID:            chatID,
		UserID:            userID,
		LastReadMessageID: &messageID,
		LastReadAt:        time.Now().UTC(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_message_id", "last_read_at"}),
	}).Create(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

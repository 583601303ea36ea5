package chat

import "time"

// ReadStatus is the read cursor returned to callers. LastReadMessageID is nil
// when the chat has no messages.
type ReadStatus struct {
	ChatID            uint       `json:"chatId"`
	UserID            uint       `json:"userId"`
	LastReadMessageID *uint      `json:"last_read_message_id"`
	LastReadAt        *time.Time `json:"last_read_at"`
}

// MarkRead moves the user's read cursor to the chat's current max message id.
// An empty chat returns a nil cursor and writes nothing.
func (s *Service) MarkRead(chatID, userID uint) (*ReadStatus, error) {
	if _, err := s.authorizeMember(chatID, userID); err != nil {
		return nil, err
	}

	maxID, err := s.store.MaxMessageID(chatID)
	if err != nil {
		return nil, err
	}
	if maxID == nil {
		return &ReadStatus{ChatID: chatID, UserID: userID}, nil
	}

	status, err := s.store.UpsertReadStatus(chatID, userID, *maxID)
	if err != nil {
		return nil, err
	}
	return &ReadStatus{
		ChatID:            status.ChatID,
		UserID:            status.UserID,
		LastReadMessageID: status.LastReadMessageID,
		LastReadAt:        &status.LastReadAt,
	}, nil
}

// UnreadCount counts messages above the user's cursor, excluding the user's
// own messages.
func (s *Service) UnreadCount(chatID, userID uint) (int64, error) {
	return s.store.UnreadCount(chatID, userID)
}

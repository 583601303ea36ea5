package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kunmmi/whisper/internal/models"
)

// Member is a chat member joined with its user row.
type Member struct {
	UserID            uint    `json:"id"`
	Username          string  `json:"username"`
	Role              string  `json:"role"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func (s *Store) CreateChat(isGroup bool, name *string) (*models.Chat, error) {
	chat := models.Chat{IsGroup: isGroup, Name: name}
	if err := s.db.Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *Store) FindChatByID(chatID uint) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.First(&chat, chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindPrivateChatBetween returns the private chat shared by two users, if any.
// Order of the arguments does not matter.
func (s *Store) FindPrivateChatBetween(userA, userB uint) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.
		Joins("JOIN chat_members cm1 ON cm1.chat_id = chats.id AND cm1.user_id = ?", userA).
		Joins("JOIN chat_members cm2 ON cm2.chat_id = chats.id AND cm2.user_id = ?", userB).
		Where("chats.is_group = ?", false).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *Store) UserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.
		Joins("JOIN chat_members cm ON cm.chat_id = chats.id").
		Where("cm.user_id = ?", userID).
		Order("chats.created_at DESC").
		Find(&chats).Error
	return chats, err
}

func (s *Store) ChatMembers(chatID uint) ([]Member, error) {
	var members []Member
	err := s.db.
		Table("chat_members").
		Select("chat_members.user_id, chat_members.role, users.username, users.profile_picture_url").
		Joins("JOIN users ON users.id = chat_members.user_id").
		Where("chat_members.chat_id = ?", chatID).
		Scan(&members).Error
	return members, err
}

// OtherParticipant returns the peer of a private chat.
func (s *Store) OtherParticipant(chatID, userID uint) (*models.User, error) {
	var u models.User
	err := s.db.
		Joins("JOIN chat_members cm ON cm.user_id = users.id").
		Where("cm.chat_id = ? AND cm.user_id <> ?", chatID, userID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) AddMember(chatID, userID uint, role string) error {
	return s.db.Create(&models.ChatMember{ChatID: chatID, UserID: userID, Role: role}).Error
}

func (s *Store) RemoveMember(chatID, userID uint) error {
	return s.db.
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&models.ChatMember{}).Error
}

func (s *Store) IsMember(chatID, userID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) IsAdmin(chatID, userID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ? AND role = ?", chatID, userID, models.RoleAdmin).
		Count(&n).Error
	return n > 0, err
}

// MemberRole returns the user's role, or "" if not a member.
func (s *Store) MemberRole(chatID, userID uint) (string, error) {
	var m models.ChatMember
	err := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

func (s *Store) MemberCount(chatID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.ChatMember{}).Where("chat_id = ?", chatID).Count(&n).Error
	return n, err
}

func (s *Store) AdminCount(chatID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND role = ?", chatID, models.RoleAdmin).
		Count(&n).Error
	return n, err
}

func (s *Store) RenameChat(chatID uint, name string) error {
	return s.db.Model(&models.Chat{}).Where("id = ?", chatID).Update("name", name).Error
}

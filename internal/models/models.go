package models

import "time"

// Member roles within a chat.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Media types accepted on messages.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaFile  = "file"
	MediaAudio = "audio"
)

func ValidMediaType(t string) bool {
	switch t {
	case MediaImage, MediaVideo, MediaFile, MediaAudio:
		return true
	}
	return false
}

type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"size:190;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	ProfilePictureURL *string   `gorm:"type:text" json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
}

type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IsGroup   bool      `gorm:"not null;default:false" json:"is_group"`
	Name      *string   `gorm:"size:50" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Members []ChatMember `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ChatMember struct {
	ChatID uint   `gorm:"primaryKey" json:"chat_id"`
	UserID uint   `gorm:"primaryKey" json:"user_id"`
	Role   string `gorm:"size:20;not null;default:'member'" json:"role"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type Message struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ChatID           uint      `gorm:"index;not null" json:"chat_id"`
	SenderID         uint      `gorm:"index;not null" json:"sender_id"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	ReplyToMessageID *uint     `json:"reply_to_message_id"`
	MediaURL         *string   `gorm:"type:text" json:"media_url"`
	MediaType        *string   `gorm:"size:10" json:"media_type"`
	Timestamp        time.Time `gorm:"column:timestamp;index;autoCreateTime" json:"timestamp"`

	Sender  User     `gorm:"foreignKey:SenderID" json:"-"`
	ReplyTo *Message `gorm:"foreignKey:ReplyToMessageID;constraint:OnDelete:SET NULL" json:"-"`
}

// ChatReadStatus is the per-user read cursor for a chat. A missing row means
// nothing has been read yet.
type ChatReadStatus struct {
	ChatID            uint      `gorm:"primaryKey" json:"chat_id"`
	UserID            uint      `gorm:"primaryKey" json:"user_id"`
	LastReadMessageID *uint     `json:"last_read_message_id"`
	LastReadAt        time.Time `json:"last_read_at"`
}

func (ChatReadStatus) TableName() string { return "chat_read_status" }

package chat

import (
	"strings"
	"time"

	"github.com/kunmmi/whisper/internal/models"
	"github.com/kunmmi/whisper/internal/store"
)

// ChatSummary is a chat enriched with the metadata the chat list needs.
type ChatSummary struct {
	ID               uint               `json:"id"`
	IsGroup          bool               `json:"is_group"`
	Name             *string            `json:"name"`
	CreatedAt        time.Time          `json:"created_at"`
	OtherParticipant *UserRef           `json:"other_participant,omitempty"`
	LastMessage      *store.LastMessage `json:"last_message"`
	UnreadCount      int64              `json:"unread_count"`
	Members          []store.Member     `json:"members"`
	MemberCount      int                `json:"member_count"`
}

func (s *Service) summarize(chat *models.Chat, userID uint, withUnread bool) (*ChatSummary, error) {
	members, err := s.store.ChatMembers(chat.ID)
	if err != nil {
		return nil, err
	}
	last, err := s.store.LastMessage(chat.ID)
	if err != nil {
		return nil, err
	}

	summary := &ChatSummary{
		ID:          chat.ID,
		IsGroup:     chat.IsGroup,
		Name:        chat.Name,
		CreatedAt:   chat.CreatedAt,
		LastMessage: last,
		Members:     members,
		MemberCount: len(members),
	}

	if !chat.IsGroup {
		other, err := s.store.OtherParticipant(chat.ID, userID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			ref := userRef(other)
			summary.OtherParticipant = &ref
		}
	}

	if withUnread {
		summary.UnreadCount, err = s.store.UnreadCount(chat.ID, userID)
		if err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// CreatePrivateChat finds or creates the private chat between the caller and
// the named user. Idempotent per pair: the second call returns the existing
// chat. The bool result reports whether a new chat was created.
func (s *Service) CreatePrivateChat(userID uint, username string) (*ChatSummary, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, Validation("Username is required")
	}

	other, err := s.store.FindUserByUsername(username)
	if err != nil {
		return nil, false, err
	}
	if other == nil {
		return nil, false, NotFound("User not found")
	}
	if other.ID == userID {
		return nil, false, Validation("Cannot create chat with yourself")
	}

	existing, err := s.store.FindPrivateChatBetween(userID, other.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		summary, err := s.summarize(existing, userID, false)
		return summary, false, err
	}

	chat, err := s.store.CreateChat(false, nil)
	if err != nil {
		return nil, false, err
	}
	if err := s.store.AddMember(chat.ID, userID, models.RoleMember); err != nil {
		return nil, false, err
	}
	if err := s.store.AddMember(chat.ID, other.ID, models.RoleMember); err != nil {
		return nil, false, err
	}

	summary, err := s.summarize(chat, userID, false)
	return summary, true, err
}

// GroupResult reports which invited usernames were added and which do not
// exist. Unknown usernames are not fatal.
type GroupResult struct {
	Chat          *ChatSummary
	AddedUsers    []string
	NotFoundUsers []string
}

func validateGroupName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", Validation("Group name is required")
	}
	if len(trimmed) < 3 || len(trimmed) > 50 {
		return "", Validation("Group name must be between 3 and 50 characters")
	}
	return trimmed, nil
}

func (s *Service) CreateGroup(creatorID uint, name string, usernames []string) (*GroupResult, error) {
	trimmed, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}
	if len(usernames) > MaxGroupMembers-1 {
		return nil, Validation("Group cannot have more than 50 members")
	}

	chat, err := s.store.CreateChat(true, &trimmed)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddMember(chat.ID, creatorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	result := &GroupResult{}
	for _, username := range usernames {
		user, err := s.store.FindUserByUsername(strings.TrimSpace(username))
		if err != nil {
			return nil, err
		}
		if user == nil {
			result.NotFoundUsers = append(result.NotFoundUsers, username)
			continue
		}
		member, err := s.store.IsMember(chat.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if member {
			continue
		}
		if err := s.store.AddMember(chat.ID, user.ID, models.RoleMember); err != nil {
			return nil, err
		}
		result.AddedUsers = append(result.AddedUsers, user.Username)
	}

	result.Chat, err = s.summarize(chat, creatorID, false)
	return result, err
}

// ListChats returns the caller's chats, newest first, with unread counts.
func (s *Service) ListChats(userID uint) ([]*ChatSummary, error) {
	chats, err := s.store.UserChats(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]*ChatSummary, 0, len(chats))
	for i := range chats {
		summary, err := s.summarize(&chats[i], userID, true)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) requireGroupAdmin(chatID, userID uint) (*models.Chat, error) {
	chat, err := s.store.FindChatByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, NotFound("Chat not found")
	}
	if !chat.IsGroup {
		return nil, Validation("This is not a group chat")
	}
	admin, err := s.store.IsAdmin(chatID, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, Authorization("Only admins can manage this group")
	}
	return chat, nil
}

// AddUserToGroup adds a user by username. Admin only; group size is capped.
func (s *Service) AddUserToGroup(chatID, adminID uint, username string) (*UserRef, int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, 0, Validation("Username is required")
	}
	if _, err := s.requireGroupAdmin(chatID, adminID); err != nil {
		return nil, 0, err
	}

	count, err := s.store.MemberCount(chatID)
	if err != nil {
		return nil, 0, err
	}
	if count >= MaxGroupMembers {
		return nil, 0, Validation("Group has reached maximum size (50 members)")
	}

	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, NotFound("User not found")
	}
	member, err := s.store.IsMember(chatID, user.ID)
	if err != nil {
		return nil, 0, err
	}
	if member {
		return nil, 0, Validation("User is already a member of this group")
	}

	if err := s.store.AddMember(chatID, user.ID, models.RoleMember); err != nil {
		return nil, 0, err
	}
	ref := userRef(user)
	return &ref, count + 1, nil
}

// RemoveUserFromGroup removes a user by username. Admin only; removing the
// last admin is rejected.
func (s *Service) RemoveUserFromGroup(chatID, adminID uint, username string) (*UserRef, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, Validation("Username is required")
	}
	if _, err := s.requireGroupAdmin(chatID, adminID); err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	member, err := s.store.IsMember(chatID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, Validation("User is not a member of this group")
	}

	admin, err := s.store.IsAdmin(chatID, user.ID)
	if err != nil {
		return nil, err
	}
	if admin {
		admins, err := s.store.AdminCount(chatID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, Authorization("Cannot remove the last admin from the group")
		}
	}

	if err := s.store.RemoveMember(chatID, user.ID); err != nil {
		return nil, err
	}
	ref := userRef(user)
	return &ref, nil
}

// LeaveGroup removes the caller from a group, unless they are its last admin.
func (s *Service) LeaveGroup(chatID, userID uint) error {
	chat, err := s.store.FindChatByID(chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return NotFound("Chat not found")
	}
	if !chat.IsGroup {
		return Validation("This is not a group chat")
	}
	member, err := s.store.IsMember(chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		return Authorization("You are not a member of this group")
	}

	admin, err := s.store.IsAdmin(chatID, userID)
	if err != nil {
		return err
	}
	if admin {
		admins, err := s.store.AdminCount(chatID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return Authorization("Cannot leave group as the last admin")
		}
	}
	return s.store.RemoveMember(chatID, userID)
}

// RenameGroup renames a group. Admin only.
func (s *Service) RenameGroup(chatID, userID uint, name string) (*models.Chat, error) {
	trimmed, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireGroupAdmin(chatID, userID); err != nil {
		return nil, err
	}
	if err := s.store.RenameChat(chatID, trimmed); err != nil {
		return nil, err
	}
	return s.store.FindChatByID(chatID)
}

// DeleteChat removes the caller's own membership: a per-side delete for
// private chats and equivalent to leaving for groups. A group's last admin
// cannot delete it out from under the members.
func (s *Service) DeleteChat(chatID, userID uint) error {
	chat, err := s.authorizeMember(chatID, userID)
	if err != nil {
		return err
	}

	if chat.IsGroup {
		admin, err := s.store.IsAdmin(chatID, userID)
		if err != nil {
			return err
		}
		if admin {
			admins, err := s.store.AdminCount(chatID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return Authorization("Cannot delete group as the last admin")
			}
		}
	}
	return s.store.RemoveMember(chatID, userID)
}

package chat

import "github.com/kunmmi/whisper/internal/models"

// Membership gate. Every room-scoped operation checks membership here before
// performing any side effect; checks always hit the store so a removal is
// observed on the very next call.

func (s *Service) IsMember(chatID, userID uint) (bool, error) {
	return s.store.IsMember(chatID, userID)
}

func (s *Service) IsAdmin(chatID, userID uint) (bool, error) {
	return s.store.IsAdmin(chatID, userID)
}

// Role returns "admin", "member" or "" for non-members.
func (s *Service) Role(chatID, userID uint) (string, error) {
	return s.store.MemberRole(chatID, userID)
}

func (s *Service) AdminCount(chatID uint) (int64, error) {
	return s.store.AdminCount(chatID)
}

// authorizeMember verifies the chat exists and the user belongs to it.
func (s *Service) authorizeMember(chatID, userID uint) (*models.Chat, error) {
	chat, err := s.store.FindChatByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, NotFound("Chat not found")
	}
	member, err := s.store.IsMember(chatID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, Authorization("You are not a member of this chat")
	}
	return chat, nil
}

// AuthorizeMember is the exported gate used by the socket router.
func (s *Service) AuthorizeMember(chatID, userID uint) error {
	_, err := s.authorizeMember(chatID, userID)
	return err
}

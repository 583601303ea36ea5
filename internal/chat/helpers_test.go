package chat

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kunmmi/whisper/internal/database"
	"github.com/kunmmi/whisper/internal/models"
	"github.com/kunmmi/whisper/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	st := store.New(db)
	return New(st), st
}

func createUser(t *testing.T, st *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, st.CreateUser(u))
	return u
}

func createPrivateChat(t *testing.T, svc *Service, a, b *models.User) uint {
	t.Helper()
	summary, created, err := svc.CreatePrivateChat(a.ID, b.Username)
	require.NoError(t, err)
	require.True(t, created)
	return summary.ID
}

func createGroupChat(t *testing.T, svc *Service, creator *models.User, name string, invitees ...string) uint {
	t.Helper()
	result, err := svc.CreateGroup(creator.ID, name, invitees)
	require.NoError(t, err)
	return result.Chat.ID
}

func sendText(t *testing.T, svc *Service, chatID, senderID uint, content string) *MessagePayload {
	t.Helper()
	payload, err := svc.SendMessage(SendMessageInput{ChatID: chatID, SenderID: senderID, Content: content})
	require.NoError(t, err)
	return payload
}

func strptr(s string) *string { return &s }

func makeUsers(t *testing.T, st *store.Store, prefix string, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, n)
	for i := range users {
		users[i] = createUser(t, st, fmt.Sprintf("%s%d", prefix, i))
	}
	return users
}

package ws

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kunmmi/whisper/internal/chat"
	"github.com/kunmmi/whisper/internal/database"
	"github.com/kunmmi/whisper/internal/models"
	"github.com/kunmmi/whisper/internal/store"
)

func newTestRouter(t *testing.T) (*Router, *Hub, *chat.Service, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ws.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	st := store.New(db)
	svc := chat.New(st)
	hub := NewHub()
	return NewRouter(hub, svc), hub, svc, st
}

func addUser(t *testing.T, st *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "irrelevant"}
	require.NoError(t, st.CreateUser(u))
	return u
}

func inbound(t *testing.T, eventType string, data any) Inbound {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Inbound{Type: eventType, Data: raw}
}

func TestJoinChatAuthorization(t *testing.T) {
	router, hub, svc, st := newTestRouter(t)
	alice := addUser(t, st, "alice")
	addUser(t, st, "bob")
	mallory := addUser(t, st, "mallory")

	summary, _, err := svc.CreatePrivateChat(alice.ID, "bob")
	require.NoError(t, err)
	chatID := summary.ID

	aliceConn := NewClient(alice.ID, "alice", nil)
	malloryConn := NewClient(mallory.ID, "mallory", nil)
	hub.Register(aliceConn)
	hub.Register(malloryConn)
	drain(aliceConn)
	drain(malloryConn)

	// Member gets a join confirmation scoped to their own connection.
	router.Dispatch(aliceConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	events := drain(aliceConn)
	require.Equal(t, 1, countType(events, EventJoinedChat))
	joined := events[0].Data.(JoinedChatData)
	assert.Equal(t, chatID, joined.ChatID)

	// Non-member gets an error and is never subscribed.
	router.Dispatch(malloryConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	events = drain(malloryConn)
	require.Equal(t, 1, countType(events, EventError))
	assert.Equal(t, "You are not a member of this chat", events[0].Data.(ErrorData).Error)

	hub.BroadcastToRoom(chatID, Event{Type: EventReceiveMessage, Data: "probe"})
	assert.Equal(t, 0, countType(drain(malloryConn), EventReceiveMessage))

	// Missing chat id.
	router.Dispatch(aliceConn, inbound(t, EventJoinChat, JoinChatData{}))
	events = drain(aliceConn)
	require.Equal(t, 1, countType(events, EventError))
}

func TestSendMessageBroadcastIncludesSender(t *testing.T) {
	router, hub, svc, st := newTestRouter(t)
	alice := addUser(t, st, "alice")
	bob := addUser(t, st, "bob")

	summary, _, err := svc.CreatePrivateChat(alice.ID, "bob")
	require.NoError(t, err)
	chatID := summary.ID

	aliceConn := NewClient(alice.ID, "alice", nil)
	bobConn := NewClient(bob.ID, "bob", nil)
	hub.Register(aliceConn)
	hub.Register(bobConn)
	router.Dispatch(aliceConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	router.Dispatch(bobConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	drain(aliceConn)
	drain(bobConn)

	router.Dispatch(aliceConn, inbound(t, EventSendMessage, SendMessageData{ChatID: chatID, Content: "hi bob"}))

	// Sender's UI updates via the broadcast too.
	for _, conn := range []*Client{aliceConn, bobConn} {
		events := drain(conn)
		require.Equal(t, 1, countType(events, EventReceiveMessage))
		payload := events[0].Data.(*chat.MessagePayload)
		assert.Equal(t, "hi bob", payload.Content)
		assert.Equal(t, "alice", payload.Sender.Username)
		assert.Equal(t, chatID, payload.ChatID)
	}

	// Invalid sends surface as an error event on the sender only.
	router.Dispatch(aliceConn, inbound(t, EventSendMessage, SendMessageData{ChatID: chatID}))
	events := drain(aliceConn)
	require.Equal(t, 1, countType(events, EventError))
	assert.Equal(t, 0, countType(drain(bobConn), EventError))
}

func TestTypingEvents(t *testing.T) {
	router, hub, svc, st := newTestRouter(t)
	alice := addUser(t, st, "alice")
	bob := addUser(t, st, "bob")
	mallory := addUser(t, st, "mallory")

	summary, _, err := svc.CreatePrivateChat(alice.ID, "bob")
	require.NoError(t, err)
	chatID := summary.ID

	aliceConn := NewClient(alice.ID, "alice", nil)
	bobConn := NewClient(bob.ID, "bob", nil)
	malloryConn := NewClient(mallory.ID, "mallory", nil)
	hub.Register(aliceConn)
	hub.Register(bobConn)
	hub.Register(malloryConn)
	router.Dispatch(aliceConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	router.Dispatch(bobConn, inbound(t, EventJoinChat, JoinChatData{ChatID: chatID}))
	drain(aliceConn)
	drain(bobConn)
	drain(malloryConn)

	router.Dispatch(aliceConn, inbound(t, EventTypingStart, TypingData{ChatID: chatID}))

	// Excludes the originating connection, reaches the rest of the room.
	assert.Equal(t, 0, countType(drain(aliceConn), EventUserTyping))
	events := drain(bobConn)
	require.Equal(t, 1, countType(events, EventUserTyping))
	data := events[0].Data.(TypingEventData)
	assert.Equal(t, chatID, data.ChatID)
	assert.Equal(t, "alice", data.User.Username)

	router.Dispatch(bobConn, inbound(t, EventTypingStop, TypingData{ChatID: chatID}))
	assert.Equal(t, 1, countType(drain(aliceConn), EventUserStoppedTyping))

	// Non-member typing is silently dropped: no error, no broadcast.
	router.Dispatch(malloryConn, inbound(t, EventTypingStart, TypingData{ChatID: chatID}))
	assert.Empty(t, drain(malloryConn))
	assert.Equal(t, 0, countType(drain(bobConn), EventUserTyping))
}

func TestDispatchUnknownEvent(t *testing.T) {
	router, hub, _, st := newTestRouter(t)
	alice := addUser(t, st, "alice")

	conn := NewClient(alice.ID, "alice", nil)
	hub.Register(conn)
	drain(conn)

	router.Dispatch(conn, Inbound{Type: "no_such_event", Data: json.RawMessage(`{}`)})
	assert.Empty(t, drain(conn))
}

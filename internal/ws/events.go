package ws

import "encoding/json"

// Client → server event names.
const (
	EventJoinChat    = "join_chat"
	EventSendMessage = "send_message"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
)

// Server → client event names.
const (
	EventJoinedChat        = "joined_chat"
	EventReceiveMessage    = "receive_message"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventUserOnline        = "user_online"
	EventUserOffline       = "user_offline"
	EventError             = "error"
)

// Event is the outbound wire frame.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound is the raw frame read off a connection; Data is decoded by the
// handler the type dispatches to.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type JoinChatData struct {
	ChatID uint `json:"chatId"`
}

type SendMessageData struct {
	ChatID           uint    `json:"chatId"`
	Content          string  `json:"content"`
	ReplyToMessageID *uint   `json:"reply_to_message_id"`
	MediaURL         *string `json:"media_url"`
	MediaType        *string `json:"media_type"`
}

type TypingData struct {
	ChatID uint `json:"chatId"`
}

type JoinedChatData struct {
	ChatID  uint   `json:"chatId"`
	Message string `json:"message"`
}

type TypingUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TypingEventData struct {
	ChatID uint       `json:"chatId"`
	User   TypingUser `json:"user"`
}

type PresenceData struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

type ErrorData struct {
	Error string `json:"error"`
}

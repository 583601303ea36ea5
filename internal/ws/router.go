package ws

import (
	"encoding/json"
	"log"

	"github.com/kunmmi/whisper/internal/chat"
)

// Router maps inbound event names to handlers. Each handler works from the
// connection's authenticated identity plus the decoded payload, so
// authorization is uniform and testable without a live socket.
type Router struct {
	hub      *Hub
	svc      *chat.Service
	handlers map[string]func(*Client, json.RawMessage)
}

func NewRouter(hub *Hub, svc *chat.Service) *Router {
	r := &Router{hub: hub, svc: svc}
	r.handlers = map[string]func(*Client, json.RawMessage){
		EventJoinChat:    r.handleJoinChat,
		EventSendMessage: r.handleSendMessage,
		EventTypingStart: r.handleTypingStart,
		EventTypingStop:  r.handleTypingStop,
	}
	return r
}

// Dispatch routes one inbound frame. Unknown event types are logged and
// dropped rather than erroring the connection.
func (r *Router) Dispatch(c *Client, ev Inbound) {
	handler, ok := r.handlers[ev.Type]
	if !ok {
		log.Printf("ws: unknown event %q from user %d", ev.Type, c.UserID)
		return
	}
	handler(c, ev.Data)
}

func (r *Router) handleJoinChat(c *Client, data json.RawMessage) {
	var req JoinChatData
	if err := json.Unmarshal(data, &req); err != nil || req.ChatID == 0 {
		c.sendError("Chat ID is required")
		return
	}

	if err := r.svc.AuthorizeMember(req.ChatID, c.UserID); err != nil {
		c.sendError(errorMessage(err))
		return
	}

	r.hub.JoinRoom(c, req.ChatID)
	c.trySend(Event{
		Type: EventJoinedChat,
		Data: JoinedChatData{ChatID: req.ChatID, Message: "Successfully joined chat"},
	})
}

func (r *Router) handleSendMessage(c *Client, data json.RawMessage) {
	var req SendMessageData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid send_message payload")
		return
	}

	payload, err := r.svc.SendMessage(chat.SendMessageInput{
		ChatID:           req.ChatID,
		SenderID:         c.UserID,
		Content:          req.Content,
		ReplyToMessageID: req.ReplyToMessageID,
		MediaURL:         req.MediaURL,
		MediaType:        req.MediaType,
	})
	if err != nil {
		c.sendError(errorMessage(err))
		return
	}

	// Sender included: its UI updates from the broadcast, not a direct reply.
	r.hub.BroadcastToRoom(req.ChatID, Event{Type: EventReceiveMessage, Data: payload})
}

func (r *Router) handleTypingStart(c *Client, data json.RawMessage) {
	r.typing(c, data, EventUserTyping)
}

func (r *Router) handleTypingStop(c *Client, data json.RawMessage) {
	r.typing(c, data, EventUserStoppedTyping)
}

// typing is fire-and-forget: membership failures are swallowed, nothing is
// persisted, and expiry is the receiving client's problem.
func (r *Router) typing(c *Client, data json.RawMessage, event string) {
	var req TypingData
	if err := json.Unmarshal(data, &req); err != nil || req.ChatID == 0 {
		return
	}
	member, err := r.svc.IsMember(req.ChatID, c.UserID)
	if err != nil || !member {
		return
	}
	r.hub.BroadcastToRoomExcept(req.ChatID, c, Event{
		Type: event,
		Data: TypingEventData{
			ChatID: req.ChatID,
			User:   TypingUser{ID: c.UserID, Username: c.Username},
		},
	})
}

// errorMessage keeps classified errors verbatim and hides everything else.
func errorMessage(err error) string {
	if chat.KindOf(err) != "" {
		return err.Error()
	}
	log.Printf("ws: internal error: %v", err)
	return "Internal server error"
}

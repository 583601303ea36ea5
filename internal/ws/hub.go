// Package ws owns the realtime side of the service: the connection/presence
// registry, per-chat room subscriptions and event fan-out. All state here is
// ephemeral and process-local; nothing survives a restart.
package ws

import "sync"

type Hub struct {
	mu sync.RWMutex

	// clients indexes every live connection by user id; a user with an entry
	// here is online.
	clients map[uint]map[*Client]struct{}

	// rooms maps chat id to the connections subscribed to that chat's
	// broadcasts. A room exists only while it has subscribers.
	rooms map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: map[uint]map[*Client]struct{}{},
		rooms:   map[uint]map[*Client]struct{}{},
	}
}

// Register records a connection. The user_online broadcast fires only for the
// user's first active connection and goes to every connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	first := len(h.clients[c.UserID]) == 0
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = map[*Client]struct{}{}
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()

	if first {
		h.BroadcastAll(Event{
			Type: EventUserOnline,
			Data: PresenceData{UserID: c.UserID, Username: c.Username},
		})
	}
}

// Unregister removes a connection from the registry and every room it joined.
// The user_offline broadcast fires only when the user's last connection goes.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	last := false
	if set, ok := h.clients[c.UserID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.UserID)
				last = true
			}
		}
	}
	for chatID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, chatID)
		}
	}
	h.mu.Unlock()

	c.close()

	if last {
		h.BroadcastAll(Event{
			Type: EventUserOffline,
			Data: PresenceData{UserID: c.UserID, Username: c.Username},
		})
	}
}

// JoinRoom subscribes a connection to a chat's fan-out. Idempotent.
// Authorization is the caller's job; the hub only routes.
func (h *Hub) JoinRoom(c *Client, chatID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[chatID] == nil {
		h.rooms[chatID] = map[*Client]struct{}{}
	}
	h.rooms[chatID][c] = struct{}{}
}

// BroadcastToRoom fans an event out to every connection in a room. An empty
// room is a silent no-op.
func (h *Hub) BroadcastToRoom(chatID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[chatID] {
		c.trySend(ev)
	}
}

// BroadcastToRoomExcept skips one connection, for typing indicators that must
// not echo back to the originator.
func (h *Hub) BroadcastToRoomExcept(chatID uint, skip *Client, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[chatID] {
		if c == skip {
			continue
		}
		c.trySend(ev)
	}
}

// BroadcastAll sends to every connected client, room membership aside.
// Presence events are global.
func (h *Hub) BroadcastAll(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.clients {
		for c := range set {
			c.trySend(ev)
		}
	}
}

func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) OnlineUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain empties a client's send channel without blocking.
func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case ev := <-c.Send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func countType(events []Event, eventType string) int {
	n := 0
	for _, ev := range events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func TestPresenceIsSessionCounted(t *testing.T) {
	hub := NewHub()

	observer := NewClient(1, "observer", nil)
	hub.Register(observer)
	drain(observer)

	// Two devices for the same user: exactly one user_online.
	phone := NewClient(2, "alice", nil)
	laptop := NewClient(2, "alice", nil)
	hub.Register(phone)
	hub.Register(laptop)

	events := drain(observer)
	assert.Equal(t, 1, countType(events, EventUserOnline))
	assert.True(t, hub.IsOnline(2))

	// First disconnect: still online, no offline broadcast.
	hub.Unregister(phone)
	events = drain(observer)
	assert.Equal(t, 0, countType(events, EventUserOffline))
	assert.True(t, hub.IsOnline(2))

	// Last disconnect: exactly one user_offline.
	hub.Unregister(laptop)
	events = drain(observer)
	require.Equal(t, 1, countType(events, EventUserOffline))
	data, ok := events[0].Data.(PresenceData)
	require.True(t, ok)
	assert.Equal(t, uint(2), data.UserID)
	assert.Equal(t, "alice", data.Username)
	assert.False(t, hub.IsOnline(2))
}

func TestPresenceBroadcastIsGlobal(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	hub.Register(a)
	// The first connection's own user_online reaches it too.
	events := drain(a)
	assert.Equal(t, 1, countType(events, EventUserOnline))

	b := NewClient(2, "b", nil)
	hub.Register(b)

	// No room membership, yet both hear about each other.
	assert.Equal(t, 1, countType(drain(a), EventUserOnline))
	assert.Equal(t, 1, countType(drain(b), EventUserOnline))
}

func TestOnlineUsers(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	b := NewClient(2, "b", nil)
	hub.Register(a)
	hub.Register(b)

	assert.ElementsMatch(t, []uint{1, 2}, hub.OnlineUsers())

	hub.Unregister(a)
	assert.ElementsMatch(t, []uint{2}, hub.OnlineUsers())
}

func TestRoomBroadcast(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	b := NewClient(2, "b", nil)
	c := NewClient(3, "c", nil)
	for _, cl := range []*Client{a, b, c} {
		hub.Register(cl)
	}
	drain(a)
	drain(b)
	drain(c)

	hub.JoinRoom(a, 7)
	hub.JoinRoom(b, 7)

	hub.BroadcastToRoom(7, Event{Type: EventReceiveMessage, Data: "hi"})

	assert.Equal(t, 1, countType(drain(a), EventReceiveMessage))
	assert.Equal(t, 1, countType(drain(b), EventReceiveMessage))
	assert.Equal(t, 0, countType(drain(c), EventReceiveMessage), "non-subscriber must not receive")
}

func TestRoomJoinIsIdempotent(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	hub.Register(a)
	drain(a)

	hub.JoinRoom(a, 7)
	hub.JoinRoom(a, 7)

	hub.BroadcastToRoom(7, Event{Type: EventReceiveMessage, Data: "once"})
	assert.Equal(t, 1, countType(drain(a), EventReceiveMessage), "re-joining must not duplicate delivery")
}

func TestBroadcastToRoomExceptSkipsOriginator(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	b := NewClient(2, "b", nil)
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	hub.JoinRoom(a, 7)
	hub.JoinRoom(b, 7)

	hub.BroadcastToRoomExcept(7, a, Event{Type: EventUserTyping, Data: "typing"})

	assert.Equal(t, 0, countType(drain(a), EventUserTyping))
	assert.Equal(t, 1, countType(drain(b), EventUserTyping))
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	// Nothing subscribed: must not panic or error.
	hub.BroadcastToRoom(42, Event{Type: EventReceiveMessage, Data: "void"})
}

func TestDisconnectLeavesAllRooms(t *testing.T) {
	hub := NewHub()

	a := NewClient(1, "a", nil)
	b := NewClient(2, "b", nil)
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	hub.JoinRoom(a, 7)
	hub.JoinRoom(a, 8)
	hub.JoinRoom(b, 7)

	hub.Unregister(a)

	hub.BroadcastToRoom(7, Event{Type: EventReceiveMessage, Data: "after"})
	hub.BroadcastToRoom(8, Event{Type: EventReceiveMessage, Data: "after"})

	assert.Equal(t, 0, countType(drain(a), EventReceiveMessage))
	assert.Equal(t, 1, countType(drain(b), EventReceiveMessage))
}

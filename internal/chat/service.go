// Package chat holds the domain logic shared by the REST handlers and the
// websocket event router: the membership gate, chat lifecycle, the message
// pipeline and the read-state tracker.
package chat

import "github.com/kunmmi/whisper/internal/store"

// MaxGroupMembers caps a group's size, creator included.
const MaxGroupMembers = 50

type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

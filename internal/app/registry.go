package app

import (
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps a user to the channel that most recently connected for it.
// There is at most one entry per user; a new connection overwrites the old one.
type Registry struct {
	mu    sync.RWMutex
	users map[domain.UserID]core.ChannelID
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[domain.UserID]core.ChannelID),
	}
}

// Register binds uid to ch unconditionally and returns the channel it replaced, if any.
// The replaced channel is left open; its own disconnect cleans it up.
func (r *Registry) Register(uid domain.UserID, ch core.ChannelID) (core.ChannelID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, had := r.users[uid]
	r.users[uid] = ch
	ev := log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("channel", string(ch))
	if had && prev != ch {
		ev = ev.Str("replaced", string(prev))
	}
	ev.Msg("registered channel")
	return prev, had && prev != ch
}

func (r *Registry) Resolve(uid domain.UserID) (core.ChannelID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.users[uid]
	return ch, ok
}

// Remove deletes the entry for uid only while it still points at ch.
// A stale disconnect for an older channel is ignored.
func (r *Registry) Remove(uid domain.UserID, ch core.ChannelID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[uid]
	if !ok || cur != ch {
		log.Debug().Str("module", "app.registry").Str("user", string(uid)).Str("channel", string(ch)).Msg("stale remove ignored")
		return false
	}
	delete(r.users, uid)
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("channel", string(ch)).Msg("removed channel")
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/rs/zerolog/log"
)

var ErrUnknownChannel = errors.New("unknown channel")

// Channels is the table of open push channels, keyed by channel id.
// Registry and RoomStore hold only ids; this is where ids become connections.
type Channels struct {
	mu       sync.RWMutex
	sessions map[core.ChannelID]core.ChannelSession
}

func NewChannels() *Channels {
	return &Channels{sessions: make(map[core.ChannelID]core.ChannelSession)}
}

func (c *Channels) Bind(sess core.ChannelSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[sess.ID()] = sess
	log.Debug().Str("module", "app.channels").Str("channel", string(sess.ID())).Str("user", string(sess.User())).Msg("bound channel")
}

func (c *Channels) Get(id core.ChannelID) (core.ChannelSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

func (c *Channels) Unbind(id core.ChannelID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	log.Debug().Str("module", "app.channels").Str("channel", string(id)).Msg("unbound channel")
}

// Push sends f over channel id. Unknown or failing channels return an error
// which callers treat as an unreachable recipient.
func (c *Channels) Push(id core.ChannelID, f core.Frame) error {
	s, ok := c.Get(id)
	if !ok {
		return ErrUnknownChannel
	}
	return s.Signal().TrySend(f)
}

func (c *Channels) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

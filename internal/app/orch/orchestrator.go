package orch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrUserIDMissing = errors.New("user id missing")
	ErrChannelClosed = errors.New("channel closed")
)

type ChannelState int

const (
	StateConnecting ChannelState = iota
	StateConnected
	StateClosed
)

func (s ChannelState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "closed"
	}
}

// channelEntry serializes every event of one channel. Cleanup holds mu for its
// whole duration so nothing can re-add the channel once it started.
type channelEntry struct {
	mu    sync.Mutex
	state ChannelState
	user  domain.UserID
}

// Orchestrator is the channel lifecycle controller. It owns channel state and
// drives Registry, RoomStore and Channels on connect, events and disconnect.
type Orchestrator struct {
	Registry   *app.Registry
	Rooms      core.RoomStore
	Channels   *app.Channels
	Relays     *app.Relay
	Dispatcher *app.Dispatcher
	Policy     *app.JoinPolicy

	mu      sync.Mutex
	entries map[core.ChannelID]*channelEntry
}

func New(reg *app.Registry, rooms core.RoomStore, channels *app.Channels, policy *app.JoinPolicy) *Orchestrator {
	return &Orchestrator{
		Registry:   reg,
		Rooms:      rooms,
		Channels:   channels,
		Relays:     app.NewRelay(rooms, channels),
		Dispatcher: app.NewDispatcher(reg, channels),
		Policy:     policy,
		entries:    make(map[core.ChannelID]*channelEntry),
	}
}

// Connect admits a channel for rawUser. A missing or invalid user id closes
// conn immediately; anonymous channels are never admitted.
func (o *Orchestrator) Connect(id core.ChannelID, rawUser string, conn core.SignalConnection) (core.ChannelSession, error) {
	uid, err := domain.ParseUserID(rawUser)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("channel", string(id)).Msg("refusing connection")
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrUserIDMissing, err)
	}

	e := &channelEntry{state: StateConnecting, user: uid}
	e.mu.Lock()
	defer e.mu.Unlock()

	o.mu.Lock()
	o.entries[id] = e
	o.mu.Unlock()

	sess := core.NewChannelSession(id, uid, conn)
	o.Channels.Bind(sess)
	if prev, replaced := o.Registry.Register(uid, id); replaced {
		log.Info().Str("module", "orch").Str("user", string(uid)).Str("orphaned", string(prev)).Msg("newer connection took over user")
	}
	e.state = StateConnected
	log.Info().Str("module", "orch").Str("channel", string(id)).Str("user", string(uid)).Msg("channel connected")
	return sess, nil
}

// Disconnect runs cleanup once; later calls are no-ops. Partial cleanup is
// logged and tolerated.
func (o *Orchestrator) Disconnect(id core.ChannelID) {
	e, ok := o.entry(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return
	}
	e.state = StateClosed

	left := o.Rooms.LeaveAll(id)
	if stale := o.Rooms.RoomsOf(id); len(stale) > 0 {
		log.Warn().Str("module", "orch").Str("channel", string(id)).Int("stale_rooms", len(stale)).Msg("partial room cleanup")
	}
	if !o.Registry.Remove(e.user, id) {
		if cur, ok := o.Registry.Resolve(e.user); ok && cur == id {
			log.Warn().Str("module", "orch").Str("channel", string(id)).Str("user", string(e.user)).Msg("partial registry cleanup")
		}
	}
	o.Channels.Unbind(id)

	o.mu.Lock()
	delete(o.entries, id)
	o.mu.Unlock()

	log.Info().Str("module", "orch").Str("channel", string(id)).Str("user", string(e.user)).Int("rooms_left", len(left)).Msg("channel closed")
}

// State reports the lifecycle state of a channel. Unknown channels are closed.
func (o *Orchestrator) State(id core.ChannelID) ChannelState {
	e, ok := o.entry(id)
	if !ok {
		return StateClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (o *Orchestrator) entry(id core.ChannelID) (*channelEntry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	return e, ok
}

// withConnected runs fn under the channel lock if the channel is still connected.
func (o *Orchestrator) withConnected(id core.ChannelID, fn func(e *channelEntry)) error {
	e, ok := o.entry(id)
	if !ok {
		return ErrChannelClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateConnected {
		return ErrChannelClosed
	}
	fn(e)
	return nil
}

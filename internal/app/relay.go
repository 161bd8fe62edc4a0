package app

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RelayMode selects the fan-out set of a relay.
type RelayMode int

const (
	// BroadcastAll reaches every other member of the room.
	BroadcastAll RelayMode = iota
	// BroadcastInterpreters reaches only members holding the interpreter role.
	BroadcastInterpreters
)

func (m RelayMode) event() string {
	if m == BroadcastInterpreters {
		return EventSpeechMessage
	}
	return EventBroadcastMessage
}

func (m RelayMode) String() string {
	if m == BroadcastInterpreters {
		return "speech"
	}
	return "broadcast"
}

func (m RelayMode) accepts(member core.MemberSnapshot) bool {
	switch m {
	case BroadcastInterpreters:
		return member.Role.IsInterpreter()
	default:
		return true
	}
}

// Relay fans ephemeral room messages out to members. Delivery is fire-and-forget:
// a failed push is counted as dropped and never stops the remaining pushes.
type Relay struct {
	Rooms    core.RoomStore
	Channels *Channels
}

func NewRelay(rooms core.RoomStore, channels *Channels) *Relay {
	return &Relay{Rooms: rooms, Channels: channels}
}

// Recipients resolves the fan-out set for a relay from sender in mode.
func (r *Relay) Recipients(meeting domain.MeetingID, sender core.ChannelID, mode RelayMode) []core.ChannelID {
	members := lo.Filter(r.Rooms.Members(meeting), func(m core.MemberSnapshot, _ int) bool {
		return m.Channel != sender && mode.accepts(m)
	})
	return lo.Map(members, func(m core.MemberSnapshot, _ int) core.ChannelID { return m.Channel })
}

func (r *Relay) Relay(meeting domain.MeetingID, sender core.ChannelID, msg json.RawMessage, mode RelayMode) core.PublishResult {
	res := core.PublishResult{}
	frame, err := encodeMessage(mode.event(), msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("meeting", string(meeting)).Msg("encode relay message")
		return res
	}
	for _, ch := range r.Recipients(meeting, sender, mode) {
		if err := r.Channels.Push(ch, frame); err != nil {
			log.Debug().Err(err).Str("module", "app.relay").Str("channel", string(ch)).Msg("recipient unreachable")
			res.Dropped = append(res.Dropped, ch)
			continue
		}
		res.SendTo++
	}
	log.Debug().
		Str("module", "app.relay").
		Str("meeting", string(meeting)).
		Str("from", string(sender)).
		Stringer("mode", mode).
		Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).
		Msg("relay result")
	return res
}

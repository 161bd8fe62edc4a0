package orch

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Join(id core.ChannelID, meeting domain.MeetingID, role domain.Role) error {
	return o.withConnected(id, func(e *channelEntry) {
		o.Rooms.Join(meeting, id, role)
		log.Info().Str("module", "orch").Str("channel", string(id)).Str("user", string(e.user)).Str("meeting", string(meeting)).Stringer("role", role).Msg("joined meeting")
	})
}

func (o *Orchestrator) Leave(id core.ChannelID, meeting domain.MeetingID) error {
	return o.withConnected(id, func(*channelEntry) {
		if !o.Rooms.Leave(meeting, id) {
			log.Debug().Str("module", "orch").Str("channel", string(id)).Str("meeting", string(meeting)).Msg("leave: not a member")
		}
	})
}

func (o *Orchestrator) SetRole(id core.ChannelID, role domain.Role) error {
	return o.withConnected(id, func(*channelEntry) {
		if !o.Rooms.SetRole(id, role) {
			log.Debug().Str("module", "orch").Str("channel", string(id)).Msg("set role: channel in no room")
		}
	})
}

func (o *Orchestrator) Relay(id core.ChannelID, meeting domain.MeetingID, msg json.RawMessage, mode app.RelayMode) (core.PublishResult, error) {
	var res core.PublishResult
	err := o.withConnected(id, func(*channelEntry) {
		res = o.Relays.Relay(meeting, id, msg, mode)
	})
	return res, err
}

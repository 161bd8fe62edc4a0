package signal

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/rs/zerolog/log"
)

const (
	broadcastRelay = app.BroadcastAll
	speechRelay    = app.BroadcastInterpreters
)

type relayPayload struct {
	Type      string          `json:"type"`
	MeetingID string          `json:"meetingId" validate:"required,max=64"`
	Message   json.RawMessage `json:"message"`
}

func (ctl *SignalWSController) handleRelay(sess core.ChannelSession, data []byte, mode app.RelayMode) error {
	var p relayPayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	meeting, err := parseMeeting(p.MeetingID)
	if err != nil {
		return err
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sess.User()) {
		log.Debug().Str("module", "signal").Str("user", string(sess.User())).Stringer("mode", mode).Msg("relay rate limited")
		return nil
	}
	_, err = ctl.Orch.Relay(sess.ID(), meeting, p.Message, mode)
	return ignoreClosed(err)
}

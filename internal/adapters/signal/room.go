package signal

import (
	"errors"
	"fmt"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

type joinPayload struct {
	Type      string `json:"type"`
	MeetingID string `json:"meetingId" validate:"required,max=64"`
	IsSigner  bool   `json:"isSigner"`
}

type leavePayload struct {
	Type      string `json:"type"`
	MeetingID string `json:"meetingId" validate:"required,max=64"`
}

type rolePayload struct {
	Type     string `json:"type"`
	IsSigner bool   `json:"isSigner"`
}

func (ctl *SignalWSController) handleJoin(sess core.ChannelSession, data []byte) error {
	var p joinPayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	meeting, err := parseMeeting(p.MeetingID)
	if err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("channel", string(sess.ID())).Str("meeting", p.MeetingID).Bool("signer", p.IsSigner).Msg("join")
	return ignoreClosed(ctl.Orch.Join(sess.ID(), meeting, domain.RoleFromSigner(p.IsSigner)))
}

// handleLeave leaves one meeting; the channel itself stays open.
func (ctl *SignalWSController) handleLeave(sess core.ChannelSession, data []byte) error {
	var p leavePayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	meeting, err := parseMeeting(p.MeetingID)
	if err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("channel", string(sess.ID())).Str("meeting", p.MeetingID).Msg("leave")
	return ignoreClosed(ctl.Orch.Leave(sess.ID(), meeting))
}

func (ctl *SignalWSController) handleSetRole(sess core.ChannelSession, data []byte) error {
	var p rolePayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	return ignoreClosed(ctl.Orch.SetRole(sess.ID(), domain.RoleFromSigner(p.IsSigner)))
}

// parseMeeting validates a meeting id carried by an event; a bad id is a protocol violation.
func parseMeeting(raw string) (domain.MeetingID, error) {
	meeting, err := domain.ParseMeetingID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return meeting, nil
}

// Events racing with cleanup of their own channel are dropped.
func ignoreClosed(err error) error {
	if errors.Is(err, orch.ErrChannelClosed) {
		return nil
	}
	return err
}

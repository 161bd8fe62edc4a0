package app

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Dispatcher delivers notifications to users who are connected right now.
// Delivery is at-most-once: nothing is queued for offline users.
type Dispatcher struct {
	Registry *Registry
	Channels *Channels
}

func NewDispatcher(reg *Registry, channels *Channels) *Dispatcher {
	return &Dispatcher{Registry: reg, Channels: channels}
}

// Dispatch reports whether the notification was handed to a live channel.
func (d *Dispatcher) Dispatch(uid domain.UserID, n domain.Notification) bool {
	logger := log.With().Str("module", "app.notify").Str("user", string(uid)).Str("notification", n.ID).Logger()

	ch, ok := d.Registry.Resolve(uid)
	if !ok {
		logger.Debug().Msg("user not connected")
		return false
	}
	frame, err := encodeNotification(n)
	if err != nil {
		logger.Error().Err(err).Msg("encode notification")
		return false
	}
	if err := d.Channels.Push(ch, frame); err != nil {
		logger.Warn().Err(err).Str("channel", string(ch)).Msg("notification dropped")
		return false
	}
	logger.Info().Str("channel", string(ch)).Msg("notification fired")
	return true
}

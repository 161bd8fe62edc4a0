package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrProtocol marks an inbound event the channel cannot survive.
var ErrProtocol = errors.New("protocol violation")

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	defer c.Close()
	var ping <-chan time.Time
	if ctl.pingPeriod > 0 {
		ticker := time.NewTicker(ctl.pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump processes events of one channel in arrival order and runs the
// disconnect cleanup when the transport goes away.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sess core.ChannelSession, c *WsSignalConn) {
	id := sess.ID()
	defer func() {
		log.Info().Str("module", "signal").Str("channel", string(id)).Msg("readPump closing")
		ctl.Orch.Disconnect(id)
		if ctl.Limiter != nil {
			if _, ok := ctl.Orch.Registry.Resolve(sess.User()); !ok {
				ctl.Limiter.Forget(sess.User())
			}
		}
		c.Close()
		cancel()
	}()

	if ctl.readLimit > 0 {
		c.conn.SetReadLimit(ctl.readLimit)
	}
	if ctl.pingPeriod > 0 {
		wait := ctl.pingPeriod * 10 / 9
		_ = c.conn.SetReadDeadline(time.Now().Add(wait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("channel", string(id)).Msg("readPump ctx done")
			return
		default:
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "signal").Str("channel", string(id)).Msg("readPump read error")
			}
			return
		}
		if err := ctl.handleSignal(sess, c, data); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("channel", string(id)).Msg("closing channel")
			c.violation(err.Error())
			return
		}
	}
}

func (ctl *SignalWSController) handleSignal(sess core.ChannelSession, c *WsSignalConn, data []byte) error {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: bad json", ErrProtocol)
	}

	switch env.Type {
	case "join-meeting":
		return ctl.handleJoin(sess, data)
	case "leave-meeting":
		return ctl.handleLeave(sess, data)
	case "set-role":
		return ctl.handleSetRole(sess, data)
	case "relay-broadcast":
		return ctl.handleRelay(sess, data, broadcastRelay)
	case "relay-speech":
		return ctl.handleRelay(sess, data, speechRelay)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
	return nil
}

// decode unmarshals and validates an event payload; any failure is a protocol violation.
func (ctl *SignalWSController) decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: bad payload", ErrProtocol)
	}
	if err := ctl.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrProtocol, err.Error())
	}
	return nil
}

func (ctl *SignalWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

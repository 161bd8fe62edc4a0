package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// UserIDParam is the connection parameter carrying the caller's user id.
const UserIDParam = "userId"

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *RoomRateLimiter

	validate   *validator.Validate
	readLimit  int64
	pingPeriod time.Duration
	writeWait  time.Duration
	sendBuffer int
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Limiter:    NewRoomRateLimiter(cfg.RelayRateLimit, cfg.RelayRateInterval),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		writeWait:  cfg.WriteWait,
		sendBuffer: cfg.SendBuffer,
	}
}

type WsSignalConn struct {
	conn      *websocket.Conn
	send      chan core.Frame
	writeWait time.Duration

	mu        sync.RWMutex
	closed    bool
	closeCode int
	closeText string
}

// newWsSignalConn starts unadmitted: closing it before admit reports a policy violation.
func newWsSignalConn(ws *websocket.Conn, buffer int, writeWait time.Duration) *WsSignalConn {
	return &WsSignalConn{
		conn:      ws,
		send:      make(chan core.Frame, buffer),
		writeWait: writeWait,
		closeCode: websocket.ClosePolicyViolation,
		closeText: "user id required",
	}
}

func (c *WsSignalConn) admit() {
	c.mu.Lock()
	c.closeCode = websocket.CloseNormalClosure
	c.closeText = ""
	c.mu.Unlock()
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

// violation closes the connection with a policy violation close frame.
func (c *WsSignalConn) violation(reason string) {
	c.mu.Lock()
	c.closeCode = websocket.ClosePolicyViolation
	c.closeText = reason
	c.mu.Unlock()
	c.Close()
}

// Close marks the connection closed. The close frame is written outside the lock,
// so TrySend never waits on the socket.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	code, text := c.closeCode, c.closeText
	c.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, text)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeWait))
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	id := core.ChannelID(uuid.NewString())
	rawUser := c.Query(UserIDParam)
	log.Info().Str("module", "signal").Str("channel", string(id)).Str("user", rawUser).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	conn := newWsSignalConn(ws, ctl.sendBuffer, ctl.writeWait)

	sess, err := ctl.Orch.Connect(id, rawUser, conn)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("channel", string(id)).Msg("connection refused")
		return
	}
	conn.admit()

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}

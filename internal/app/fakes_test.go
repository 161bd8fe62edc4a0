package app

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

var errDead = errors.New("dead connection")

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	dead   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return errDead
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

// decoded returns the received frames as generic JSON objects.
func (c *fakeConn) decoded() []map[string]any {
	out := make([]map[string]any, 0)
	for _, f := range c.Frames() {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func bindFake(channels *Channels, id core.ChannelID, uid domain.UserID) *fakeConn {
	conn := &fakeConn{}
	channels.Bind(core.NewChannelSession(id, uid, conn))
	return conn
}

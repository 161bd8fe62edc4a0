package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoomRateLimiter_Window(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRoomRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	req.True(rl.Allow("alice"))
	req.True(rl.Allow("alice"))
	req.False(rl.Allow("alice"))
	req.True(rl.Allow("bob"))

	now = now.Add(1100 * time.Millisecond)
	req.True(rl.Allow("alice"))
}

func TestRoomRateLimiter_Disabled(t *testing.T) {
	rl := NewRoomRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("alice"))
	}
}

func TestRoomRateLimiter_Forget(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Hour)
	require.True(t, rl.Allow("alice"))
	require.False(t, rl.Allow("alice"))
	rl.Forget("alice")
	require.True(t, rl.Allow("alice"))
}

package app

import (
	"testing"
	"time"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newPolicyAt(now time.Time) (*JoinPolicy, *fixedClock) {
	clock := &fixedClock{now: now}
	p := NewJoinPolicy(NewRoomManager(), 0)
	p.Now = clock.Now
	return p, clock
}

func TestJoinPolicy_Default_Grace(t *testing.T) {
	require.Equal(t, 15*time.Minute, NewJoinPolicy(NewRoomManager(), 0).Grace)
	require.Equal(t, time.Minute, NewJoinPolicy(NewRoomManager(), time.Minute).Grace)
}

func TestJoinPolicy_Before_Deadline_Always_Joinable(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p, clock := newPolicyAt(start.Add(-2 * time.Hour))

	for _, offset := range []time.Duration{-2 * time.Hour, 0, 10 * time.Minute, 15 * time.Minute} {
		clock.now = start.Add(offset)
		require.True(t, p.CanJoin("m1", start), "offset %s", offset)
	}
}

func TestJoinPolicy_Past_Deadline_Empty_Room_Closed(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p, _ := newPolicyAt(start.Add(15*time.Minute + time.Nanosecond))
	require.False(t, p.CanJoin("m1", start))
}

func TestJoinPolicy_Past_Deadline_Occupied_Room_Open(t *testing.T) {
	req := require.New(t)
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p, _ := newPolicyAt(start.Add(3 * time.Hour))

	p.Rooms.Join("m1", "c1", domain.RoleParticipant)
	req.True(p.CanJoin("m1", start))

	p.Rooms.LeaveAll("c1")
	req.False(p.CanJoin("m1", start))
}

func TestJoinPolicy_Scenario_Scheduled_In_One_Hour(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	p, clock := newPolicyAt(now)

	// Nobody joined: 1 minute past the deadline the meeting is closed.
	clock.now = now.Add(76 * time.Minute)
	req.False(p.CanJoin("m1", start))

	// A third party joined before the deadline and stays connected.
	clock.now = now.Add(59 * time.Minute)
	req.True(p.CanJoin("m1", start))
	p.Rooms.Join("m1", "c3", domain.RoleParticipant)

	clock.now = now.Add(76 * time.Minute)
	req.True(p.CanJoin("m1", start))
}

func TestJoinPolicy_Decide(t *testing.T) {
	req := require.New(t)
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	p, _ := newPolicyAt(start)
	p.Rooms.Join("m1", "c1", domain.RoleParticipant)

	d := p.Decide("m1", domain.MeetingAccess{ScheduledStart: start, PasswordProtected: true})

	req.Equal(JoinDecision{
		Joinable:         true,
		PasswordRequired: true,
		Deadline:         start.Add(15 * time.Minute),
		Occupants:        1,
	}, d)
}

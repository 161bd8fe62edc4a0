package app

import (
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultJoinGrace = 15 * time.Minute

// JoinDecision is returned to the meeting-join handler of the CRUD layer.
type JoinDecision struct {
	Joinable         bool      `json:"joinable"`
	PasswordRequired bool      `json:"passwordRequired"`
	Deadline         time.Time `json:"deadline"`
	Occupants        int       `json:"occupants"`
}

// JoinPolicy decides whether a meeting still admits joins.
// A meeting is open until start+Grace; after that it stays open only while
// its room is occupied. There is no upper bound on the occupied case.
type JoinPolicy struct {
	Rooms core.RoomStore
	Grace time.Duration
	Now   func() time.Time
}

func NewJoinPolicy(rooms core.RoomStore, grace time.Duration) *JoinPolicy {
	if grace <= 0 {
		grace = DefaultJoinGrace
	}
	return &JoinPolicy{Rooms: rooms, Grace: grace, Now: time.Now}
}

func (p *JoinPolicy) CanJoin(meeting domain.MeetingID, scheduledStart time.Time) bool {
	return p.Decide(meeting, domain.MeetingAccess{ScheduledStart: scheduledStart}).Joinable
}

// Decide is evaluated on every call; occupancy changes too fast to cache.
func (p *JoinPolicy) Decide(meeting domain.MeetingID, access domain.MeetingAccess) JoinDecision {
	deadline := access.ScheduledStart.Add(p.Grace)
	occupants := p.Rooms.MemberCount(meeting)
	d := JoinDecision{
		PasswordRequired: access.PasswordProtected,
		Deadline:         deadline,
		Occupants:        occupants,
	}
	now := p.Now()
	switch {
	case !now.After(deadline):
		d.Joinable = true
	case occupants > 0:
		d.Joinable = true
		log.Debug().Str("module", "app.eligibility").Str("meeting", string(meeting)).Int("occupants", occupants).Msg("past deadline, kept open by occupancy")
	default:
		log.Debug().Str("module", "app.eligibility").Str("meeting", string(meeting)).Time("deadline", deadline).Msg("meeting expired")
	}
	return d
}

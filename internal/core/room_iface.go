package core

import "github.com/dkeye/Meet/internal/domain"

// PublishResult reports delivery stats to the orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []ChannelID
}

// MemberSnapshot is a read-only view of one room member.
type MemberSnapshot struct {
	Channel ChannelID   `json:"channel"`
	Role    domain.Role `json:"role"`
}

type RoomInfo struct {
	Meeting     domain.MeetingID `json:"meeting"`
	MemberCount int              `json:"member_count"`
}

// RoomStore maps meetings to the channels currently joined to them.
// A meeting with no members has no entry.
type RoomStore interface {
	Join(meeting domain.MeetingID, ch ChannelID, role domain.Role)
	Leave(meeting domain.MeetingID, ch ChannelID) bool
	LeaveAll(ch ChannelID) []domain.MeetingID
	SetRole(ch ChannelID, role domain.Role) bool

	Members(meeting domain.MeetingID) []MemberSnapshot
	MemberCount(meeting domain.MeetingID) int
	IsEmpty(meeting domain.MeetingID) bool
	RoomsOf(ch ChannelID) []domain.MeetingID
	List() []RoomInfo
}

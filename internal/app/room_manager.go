package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type memberSet map[core.ChannelID]struct{}

// RoomManagerImpl is a threadsafe in-memory RoomStore.
// It keeps a forward index (meeting -> channels) and a reverse index
// (channel -> meetings) in sync under one lock.
type RoomManagerImpl struct {
	mu     sync.RWMutex
	rooms  map[domain.MeetingID]memberSet
	joined map[core.ChannelID]map[domain.MeetingID]struct{}
	roles  map[core.ChannelID]domain.Role
}

func NewRoomManager() core.RoomStore {
	return &RoomManagerImpl{
		rooms:  make(map[domain.MeetingID]memberSet),
		joined: make(map[core.ChannelID]map[domain.MeetingID]struct{}),
		roles:  make(map[core.ChannelID]domain.Role),
	}
}

// Join adds ch to the meeting's room, creating the room on first join.
// Re-joining only updates the role, which applies to every room ch is in.
func (f *RoomManagerImpl) Join(meeting domain.MeetingID, ch core.ChannelID, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members, ok := f.rooms[meeting]
	if !ok {
		members = make(memberSet)
		f.rooms[meeting] = members
		log.Info().Str("module", "app.rooms").Str("meeting", string(meeting)).Msg("room opened")
	}
	members[ch] = struct{}{}
	if f.joined[ch] == nil {
		f.joined[ch] = make(map[domain.MeetingID]struct{})
	}
	f.joined[ch][meeting] = struct{}{}
	f.roles[ch] = role
	log.Info().Str("module", "app.rooms").Str("meeting", string(meeting)).Str("channel", string(ch)).Stringer("role", role).Int("members", len(members)).Msg("member joined")
}

func (f *RoomManagerImpl) Leave(meeting domain.MeetingID, ch core.ChannelID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leaveLocked(meeting, ch)
}

// LeaveAll evicts ch from every room it joined and returns those rooms.
func (f *RoomManagerImpl) LeaveAll(ch core.ChannelID) []domain.MeetingID {
	f.mu.Lock()
	defer f.mu.Unlock()
	left := lo.Keys(f.joined[ch])
	for _, meeting := range left {
		f.leaveLocked(meeting, ch)
	}
	delete(f.roles, ch)
	sortMeetings(left)
	return left
}

func (f *RoomManagerImpl) leaveLocked(meeting domain.MeetingID, ch core.ChannelID) bool {
	members, ok := f.rooms[meeting]
	if !ok {
		return false
	}
	if _, ok := members[ch]; !ok {
		return false
	}
	delete(members, ch)
	if len(members) == 0 {
		delete(f.rooms, meeting)
		log.Info().Str("module", "app.rooms").Str("meeting", string(meeting)).Msg("room closed")
	}
	if rooms, ok := f.joined[ch]; ok {
		delete(rooms, meeting)
		if len(rooms) == 0 {
			delete(f.joined, ch)
			delete(f.roles, ch)
		}
	}
	log.Info().Str("module", "app.rooms").Str("meeting", string(meeting)).Str("channel", string(ch)).Msg("member left")
	return true
}

// SetRole changes the role of a channel that is in at least one room.
func (f *RoomManagerImpl) SetRole(ch core.ChannelID, role domain.Role) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.joined[ch]; !ok {
		return false
	}
	f.roles[ch] = role
	return true
}

func (f *RoomManagerImpl) Members(meeting domain.MeetingID) []core.MemberSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	members := f.rooms[meeting]
	out := make([]core.MemberSnapshot, 0, len(members))
	for ch := range members {
		out = append(out, core.MemberSnapshot{Channel: ch, Role: f.roles[ch]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out
}

func (f *RoomManagerImpl) MemberCount(meeting domain.MeetingID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms[meeting])
}

func (f *RoomManagerImpl) IsEmpty(meeting domain.MeetingID) bool {
	return f.MemberCount(meeting) == 0
}

func (f *RoomManagerImpl) RoomsOf(ch core.ChannelID) []domain.MeetingID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := lo.Keys(f.joined[ch])
	sortMeetings(out)
	return out
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for name, members := range f.rooms {
		out = append(out, core.RoomInfo{Meeting: name, MemberCount: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meeting < out[j].Meeting })
	return out
}

func sortMeetings(ms []domain.MeetingID) {
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
}

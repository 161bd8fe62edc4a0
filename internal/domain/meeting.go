package domain

import (
	"errors"
	"time"
)

const MaxMeetingIDLen = 64

var (
	ErrMeetingIDEmpty   = errors.New("meeting id empty")
	ErrMeetingIDTooLong = errors.New("meeting id too long")
)

// MeetingID identifies a conference and the room that carries its realtime traffic.
type MeetingID string

func ParseMeetingID(raw string) (MeetingID, error) {
	if len(raw) == 0 {
		return "", ErrMeetingIDEmpty
	}
	if len(raw) > MaxMeetingIDLen {
		return "", ErrMeetingIDTooLong
	}
	return MeetingID(raw), nil
}

// MeetingAccess is owned by the CRUD layer; the hub only reads it.
type MeetingAccess struct {
	ScheduledStart    time.Time
	PasswordProtected bool
}

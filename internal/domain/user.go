// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUserIDLen = 64

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

// UserID is supplied by the client at connect time and is not verified here.
type UserID string

func ParseUserID(raw string) (UserID, error) {
	if len(raw) == 0 {
		return "", ErrUserIDEmpty
	}
	if len(raw) > MaxUserIDLen {
		return "", ErrUserIDTooLong
	}
	return UserID(raw), nil
}

// UserRef is the public view of a user embedded in notifications.
type UserRef struct {
	ID     UserID `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

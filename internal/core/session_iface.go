package core

import "github.com/dkeye/Meet/internal/domain"

// ChannelSession binds a connected user to its transport endpoint.
// This is what relay and notification delivery push to.
type ChannelSession interface {
	ID() ChannelID
	User() domain.UserID
	Signal() SignalConnection
}

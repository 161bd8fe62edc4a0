package core

import "github.com/dkeye/Meet/internal/domain"

// channelSession implements ChannelSession by pairing identity + transport.
type channelSession struct {
	id   ChannelID
	user domain.UserID
	conn SignalConnection
}

func NewChannelSession(id ChannelID, user domain.UserID, conn SignalConnection) ChannelSession {
	return &channelSession{id: id, user: user, conn: conn}
}

func (s *channelSession) ID() ChannelID            { return s.id }
func (s *channelSession) User() domain.UserID      { return s.user }
func (s *channelSession) Signal() SignalConnection { return s.conn }

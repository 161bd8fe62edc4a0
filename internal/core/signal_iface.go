package core

// Frame is an encoded outbound push.
type Frame []byte

// ChannelID is assigned by the transport when a push channel is opened.
type ChannelID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

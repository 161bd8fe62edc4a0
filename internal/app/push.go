package app

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Outbound event types.
const (
	EventBroadcastMessage = "broadcast-message"
	EventSpeechMessage    = "speech-message"
	EventNotification     = "notification"
)

type messagePush struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

type notificationPush struct {
	Type         string              `json:"type"`
	Notification domain.Notification `json:"notification"`
}

func encodeMessage(event string, msg json.RawMessage) (core.Frame, error) {
	if len(msg) == 0 {
		msg = json.RawMessage("null")
	}
	return json.Marshal(messagePush{Type: event, Message: msg})
}

func encodeNotification(n domain.Notification) (core.Frame, error) {
	return json.Marshal(notificationPush{Type: EventNotification, Notification: n})
}

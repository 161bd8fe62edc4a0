package domain

import "time"

type NotificationType string

const (
	NotificationMeetingInvitation         NotificationType = "meetingInvitation"
	NotificationMeetingInvitationAccepted NotificationType = "meetingInvitationAccepted"
	NotificationMeetingInvitationRejected NotificationType = "meetingInvitationRejected"
	NotificationFriendshipRequest         NotificationType = "friendshipRequest"
	NotificationFriendshipAccepted        NotificationType = "friendshipAccepted"
	NotificationMeetingReminder           NotificationType = "meetingReminder"
)

// Notification mirrors the record persisted by the CRUD layer.
// The hub only attempts live delivery of it.
type Notification struct {
	ID        string           `json:"id" validate:"required"`
	CreatedAt time.Time        `json:"createdAt" validate:"required"`
	Message   string           `json:"message" validate:"required"`
	Read      bool             `json:"read"`
	Type      NotificationType `json:"type" validate:"required,oneof=meetingInvitation meetingInvitationAccepted meetingInvitationRejected friendshipRequest friendshipAccepted meetingReminder"`
	Badge     string           `json:"badge,omitempty"`
	User      UserRef          `json:"user"`
}

package orch

import (
	"time"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/domain"
)

// Notify is called by the CRUD layer after a write that concerns uid.
func (o *Orchestrator) Notify(uid domain.UserID, n domain.Notification) bool {
	return o.Dispatcher.Dispatch(uid, n)
}

func (o *Orchestrator) CanJoin(meeting domain.MeetingID, scheduledStart time.Time) bool {
	return o.Policy.CanJoin(meeting, scheduledStart)
}

func (o *Orchestrator) DecideJoin(meeting domain.MeetingID, access domain.MeetingAccess) app.JoinDecision {
	return o.Policy.Decide(meeting, access)
}

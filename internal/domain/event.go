package domain

import "time"

type EventStatus string

const (
	EventStatusDraft    EventStatus = "draft"
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

// legalTransitions holds the only permitted status moves: submit for review,
// approve or reject, resubmit after rejection, withdraw back to draft.
var legalTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:    {EventStatusPending},
	EventStatusPending:  {EventStatusApproved, EventStatusRejected, EventStatusDraft},
	EventStatusRejected: {EventStatusPending},
}

// CanTransitionTo reports whether moving to next is a legal status change.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseEventStatus validates a caller-supplied status string.
func ParseEventStatus(raw string) (EventStatus, bool) {
	switch EventStatus(raw) {
	case EventStatusDraft, EventStatusPending, EventStatusApproved, EventStatusRejected:
		return EventStatus(raw), true
	}
	return "", false
}

// Event is an organizer-owned event.
type Event struct {
	ID           int64
	OrganizerID  int64
	Title        string
	Description  string
	Venue        string
	Status       EventStatus
	StartsAt     time.Time
	EndsAt       time.Time
	MaxAttendees int
	Price        float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

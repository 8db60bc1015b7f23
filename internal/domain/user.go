package domain

import "time"

type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
	RoleAttendee  Role = "attendee"
)

// User carries the demographic fields the attendee report aggregates over.
// This service only ever reads users.
type User struct {
	ID          int64
	Name        string
	Email       string
	Role        Role
	Gender      string
	DateOfBirth *time.Time
}

// EventAttendee is one row of an event's attendee listing: the purchaser
// joined with their ticket state.
type EventAttendee struct {
	UserID        int64
	Name          string
	Email         string
	TicketID      int64
	TicketStatus  TicketStatus
	PaymentStatus PaymentStatus
	RegisteredAt  time.Time
}

package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket links a purchaser to an event. Revenue is recognized only when
// PaymentStatus is completed.
type Ticket struct {
	ID            int64
	EventID       int64
	UserID        int64
	PricePaid     float64
	PaymentStatus PaymentStatus
	PaymentMethod string
	Status        TicketStatus
	CreatedAt     time.Time
}

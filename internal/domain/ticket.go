package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The only
// permitted transition is OPEN -> CLOSED; CLOSED is terminal.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// TicketPriority is a free-form urgency tag. Conventional values are
// "low", "medium" and "high" but any non-empty tag is accepted.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	UserID      string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

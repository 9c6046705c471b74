package bookings

import "time"

// Booking status values. A booking starts WAITING and moves exactly once to
// APPROVED or REJECTED.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// State filter tokens for the booking lists. Matching is case-sensitive.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

// Booking is one row of the bookings table.
type Booking struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
	Status   string
}

// bookingRow is a booking joined with the item fields the responses and
// ownership checks need.
type bookingRow struct {
	Booking
	ItemName string
	OwnerID  int64
}

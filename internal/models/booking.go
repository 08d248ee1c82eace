package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the booking lifecycle state. A booking is created WAITING and is
// decided exactly once: WAITING -> APPROVED or WAITING -> REJECTED.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Decided reports whether the status is terminal.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	BookerID  int64     `json:"booker_id"`
	Status    Status    `json:"status"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingDetail is a booking row joined with its item and booker, as read by
// the storage layer for views and access checks.
type BookingDetail struct {
	Booking
	ItemName        string
	ItemDescription string
	ItemOwnerID     int64
	BookerEmail     string
	BookerName      string
}

// State selects a time- or status-based view when listing bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps a query parameter to a State. The empty string means ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch State(strings.ToUpper(raw)) {
	case StateAll:
		return StateAll, nil
	case StateCurrent:
		return StateCurrent, nil
	case StateFuture:
		return StateFuture, nil
	case StatePast:
		return StatePast, nil
	case StateWaiting:
		return StateWaiting, nil
	case StateRejected:
		return StateRejected, nil
	default:
		return "", fmt.Errorf("Unknown state: %s", raw)
	}
}

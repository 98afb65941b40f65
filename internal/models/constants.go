package models

import "strings"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// BookingState is the listing filter keyword accepted by booking list endpoints.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a keyword to a known state. An empty keyword means ALL.
func ParseBookingState(raw string) (BookingState, bool) {
	switch state := BookingState(strings.TrimSpace(raw)); state {
	case "":
		return StateAll, true
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return state, true
	default:
		return "", false
	}
}

const (
	// UserIDHeader carries the acting user's id on every item/booking/request call.
	UserIDHeader = "X-Sharer-User-Id"

	DefaultPageFrom = 0
	DefaultPageSize = 10
)

// Page is offset/limit pagination.
type Page struct {
	From int
	Size int
}

func DefaultPage() Page {
	return Page{From: DefaultPageFrom, Size: DefaultPageSize}
}

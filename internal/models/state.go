package models

import (
	"strings"

	"shareit/internal/apperr"
)

// BookingState is a query-time listing filter, not a stored field.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a case-insensitive token to a BookingState. An empty
// token defaults to ALL. The error message for unknown tokens is fixed; API
// clients assert on it verbatim.
func ParseBookingState(raw string) (BookingState, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch BookingState(strings.ToUpper(raw)) {
	case StateAll:
		return StateAll, nil
	case StateCurrent:
		return StateCurrent, nil
	case StatePast:
		return StatePast, nil
	case StateFuture:
		return StateFuture, nil
	case StateWaiting:
		return StateWaiting, nil
	case StateRejected:
		return StateRejected, nil
	default:
		return "", apperr.BadRequest("Unknown state: UNSUPPORTED_STATUS")
	}
}

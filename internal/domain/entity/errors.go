package entity

import "errors"

var (
	ErrLookupFailed          = errors.New("airport lookup failed")
	ErrNoFlightsFound        = errors.New("no flights found")
	ErrSearchFailed          = errors.New("flight search failed")
	ErrReservationFailed     = errors.New("reservation failed")
	ErrMissingSelection      = errors.New("departure and arrival airports must be selected")
	ErrMissingDepartureTime  = errors.New("departure time must be set")
	ErrPageOutOfRange        = errors.New("page out of range")
	ErrInvalidTransition     = errors.New("invalid reservation transition")
	ErrReservationInProgress = errors.New("reservation already in progress")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrKeyNotFound           = errors.New("key not found")
	ErrUnknownAirport        = errors.New("airport not in current suggestions")
)

// internal/domain/entity/reservation.go
package entity

import "encoding/json"

// NotAvailable is used for itinerary names when the airport selection is unknown
const NotAvailable = "N/A"

// ReservationRequest is the body sent to the reservation API
type ReservationRequest struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	PassengerCount int                 `json:"passenger_count"`
	AdultCount     int                 `json:"adult_count"`
	ChildCount     int                 `json:"child_count"`
	BabyCount      int                 `json:"baby_count"`
	TotalAmount    float64             `json:"total_amount"`
	Currency       string              `json:"currency"`
	Itineraries    []ItinerarySnapshot `json:"itineraries"`
}

// ItinerarySnapshot is the flight being reserved, frozen at confirmation time
type ItinerarySnapshot struct {
	DepartureCity    string `json:"departure_city"`
	ArrivalCity      string `json:"arrival_city"`
	DepartureDate    string `json:"departure_date"`
	ArrivalDate      string `json:"arrival_date"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	FlightNumber     string `json:"flight_number"`
	MarketingCarrier string `json:"marketing_carrier"`
}

// Reservation is a confirmed reservation as persisted by the backend.
// Raw holds the record exactly as the backend returned it; the typed fields
// are a best-effort view of it.
type Reservation struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	PassengerCount int                 `json:"passenger_count"`
	AdultCount     int                 `json:"adult_count"`
	ChildCount     int                 `json:"child_count"`
	BabyCount      int                 `json:"baby_count"`
	TotalAmount    float64             `json:"total_amount"`
	Currency       string              `json:"currency"`
	CreatedAt      string              `json:"created_at,omitempty"`
	UpdatedAt      string              `json:"updated_at,omitempty"`
	Itineraries    []ReservedItinerary `json:"itineraries"`
	Raw            json.RawMessage     `json:"-"`
}

// Record returns the ledger entry for r: the backend's record when known,
// otherwise the encoded typed fields
func (r *Reservation) Record() (json.RawMessage, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(r)
}

// ReservedItinerary is an itinerary row of a persisted reservation
type ReservedItinerary struct {
	ID        int64 `json:"id,omitempty"`
	ReserveID int64 `json:"reserve_id,omitempty"`
	ItinerarySnapshot
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SearchSnapshot is the part of the search form a reservation is built from
type SearchSnapshot struct {
	Departure  *Airport
	Arrival    *Airport
	Passengers PassengerCounts
}

// internal/domain/entity/flight.go
package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Default price band applied when the search response does not carry one
const (
	DefaultPriceMin = 100000
	DefaultPriceMax = 10000000
)

// FlightRequest is the body of a flight search
type FlightRequest struct {
	Direct        bool             `json:"direct"`
	Currency      string           `json:"currency"`
	Searchs       int              `json:"searchs"`
	Class         bool             `json:"class"`
	QtyPassengers int              `json:"qtyPassengers"`
	Adult         int              `json:"adult"`
	Child         int              `json:"child"`
	Baby          int              `json:"baby"`
	Seat          int              `json:"seat"`
	Itinerary     []ItineraryQuery `json:"itinerary"`
}

// ItineraryQuery is one leg requested in a flight search
type ItineraryQuery struct {
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	Hour          string `json:"hour"`
}

// FlightResponse is the raw flight search response
type FlightResponse struct {
	Status int               `json:"status"`
	Data   *FlightSearchData `json:"data"`
}

// FlightSearchData holds the segment groups and the quoted price band
type FlightSearchData struct {
	Seg1      []SegmentGroup `json:"Seg1"`
	Companies []string       `json:"companies,omitempty"`
	PriceMin  NumericString  `json:"priceMin"`
	PriceMax  NumericString  `json:"priceMax"`
}

// SegmentGroup is one numbered option of the response with its legs
type SegmentGroup struct {
	Num      string          `json:"num"`
	Segments []FlightSegment `json:"segments"`
}

// FlightSegment is one leg of an itinerary
type FlightSegment struct {
	ProductDateTime ProductDateTime   `json:"productDateTime"`
	Location        []SegmentLocation `json:"location"`
	CompanyID       CompanyID         `json:"companyId"`
	CompanyName     string            `json:"companyName,omitempty"`
	FlightNumber    string            `json:"flightOrtrainNumber"`
	AttributeDetail AttributeDetail   `json:"attributeDetail"`
	Equipment       string            `json:"equipment"`
}

// ProductDateTime carries departure and arrival times in human and numeric forms
type ProductDateTime struct {
	DateOfDeparture      string `json:"dateOfDeparture"`
	TimeOfDeparture      string `json:"timeOfDeparture"`
	DateOfArrival        string `json:"dateOfArrival"`
	TimeOfArrival        string `json:"timeOfArrival"`
	DayDeparture         string `json:"dayDeparture,omitempty"`
	DateFormatDeparture  string `json:"dateFormatDeparture,omitempty"`
	DayArrival           string `json:"dayArrival,omitempty"`
	DateFormatArrival    string `json:"dateFormatArrival,omitempty"`
	TimeDepartureSeconds int    `json:"timeDepartureSeconds"`
	TimeArrivalSeconds   int    `json:"timeArrivalSeconds"`
}

// SegmentLocation is an airport touched by a segment
type SegmentLocation struct {
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Terminal     string `json:"terminal,omitempty"`
}

// CompanyID holds the carriers of a segment
type CompanyID struct {
	MarketingCarrier string `json:"marketingCarrier"`
	OperatingCarrier string `json:"operatingCarrier,omitempty"`
}

// AttributeDetail is the free text attribute of a segment, usually its duration
type AttributeDetail struct {
	AttributeType        string `json:"attributeType"`
	AttributeDescription string `json:"attributeDescription"`
}

// Departure returns the first location of the segment
func (s FlightSegment) Departure() SegmentLocation {
	if len(s.Location) == 0 {
		return SegmentLocation{}
	}
	return s.Location[0]
}

// Arrival returns the last location of the segment
func (s FlightSegment) Arrival() SegmentLocation {
	if len(s.Location) < 2 {
		return SegmentLocation{}
	}
	return s.Location[len(s.Location)-1]
}

// PriceBand is the min/max price quoted for a whole result set
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ParsePriceBand applies the default band to missing, zero or non numeric values
func ParsePriceBand(min, max NumericString) PriceBand {
	return PriceBand{
		Min: min.FloatOr(DefaultPriceMin),
		Max: max.FloatOr(DefaultPriceMax),
	}
}

// FlightResultSet holds the segments of one search grouped by marketing carrier
type FlightResultSet struct {
	Carriers  []string                   `json:"carriers"`
	ByCarrier map[string][]FlightSegment `json:"byCarrier"`
	Price     PriceBand                  `json:"price"`
}

// Flatten concatenates every carrier's segments in carrier order
func (r *FlightResultSet) Flatten() []FlightSegment {
	if r == nil {
		return nil
	}
	out := make([]FlightSegment, 0, r.Len())
	for _, carrier := range r.Carriers {
		out = append(out, r.ByCarrier[carrier]...)
	}
	return out
}

// Len returns the number of segments across all carriers
func (r *FlightResultSet) Len() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, segments := range r.ByCarrier {
		n += len(segments)
	}
	return n
}

// NumericString accepts a JSON number or a JSON string holding a number
type NumericString string

// UnmarshalJSON keeps the raw textual value of either form
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	*n = NumericString(data)
	return nil
}

// FloatOr parses the value, returning fallback when it is empty, zero or invalid
func (n NumericString) FloatOr(fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || v == 0 {
		return fallback
	}
	return v
}

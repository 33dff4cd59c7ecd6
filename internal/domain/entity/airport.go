// internal/domain/entity/airport.go
package entity

import "fmt"

// Airport represents an airport record from the remote catalog
type Airport struct {
	ID              int64   `json:"airportId"`
	CodeIata        string  `json:"codeIataAirport"`
	CodeIcao        string  `json:"codeIcaoAirport"`
	CodeIataCity    string  `json:"codeIataCity"`
	CodeIso2Country string  `json:"codeIso2Country"`
	Name            string  `json:"nameAirport"`
	CountryName     string  `json:"nameCountry"`
	Latitude        string  `json:"latitudeAirport"`
	Longitude       string  `json:"longitudeAirport"`
	Timezone        string  `json:"timezone"`
	GMT             float64 `json:"GMT"`
}

// Label is the text shown in the input field once the airport is selected
func (a Airport) Label() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.CodeIata)
}

// Description is the text shown for the airport inside a suggestion list
func (a Airport) Description() string {
	if a.CountryName == "" {
		return a.Label()
	}
	return fmt.Sprintf("%s - %s", a.Label(), a.CountryName)
}

// City represents a city record and the airports that belong to it
type City struct {
	ID              int64     `json:"cityId"`
	CodeIata        string    `json:"codeIataCity"`
	CodeIso2Country string    `json:"codeIso2Country"`
	Name            string    `json:"nameCity"`
	Latitude        string    `json:"latitudeCity,omitempty"`
	Longitude       string    `json:"longitudeCity,omitempty"`
	Timezone        string    `json:"timezone,omitempty"`
	GMT             float64   `json:"GMT,omitempty"`
	ChildAirports   []Airport `json:"new_airports,omitempty"`
}

// AirportLookup is the catalog response for a partial name query
type AirportLookup struct {
	Airports []Airport `json:"airports"`
	Cities   []City    `json:"cities"`
}

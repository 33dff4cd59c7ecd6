package entity

import "fmt"

// Field identifies one of the two airport inputs of the search form
type Field string

const (
	FieldDeparture Field = "departure"
	FieldArrival   Field = "arrival"
)

// SuggestionGroup is a labeled cluster of selectable airports
type SuggestionGroup struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Airports []Airport `json:"airports"`
}

// CityGroupKey returns the group key used for a city
func CityGroupKey(id int64) string {
	return fmt.Sprintf("city-%d", id)
}

// AirportGroupKey returns the group key used for a standalone airport
func AirportGroupKey(id int64) string {
	return fmt.Sprintf("airport-%d", id)
}

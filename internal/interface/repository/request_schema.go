package repository

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const flightRequestSchema = `{
	"type": "object",
	"required": ["direct", "currency", "searchs", "class", "qtyPassengers", "adult", "child", "baby", "seat", "itinerary"],
	"properties": {
		"currency": {"type": "string", "minLength": 3, "maxLength": 3},
		"searchs": {"type": "integer", "minimum": 1},
		"qtyPassengers": {"type": "integer", "minimum": 1},
		"adult": {"type": "integer", "minimum": 1},
		"child": {"type": "integer", "minimum": 0},
		"baby": {"type": "integer", "minimum": 0},
		"seat": {"type": "integer", "minimum": 0},
		"itinerary": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["departureCity", "arrivalCity", "hour"],
				"properties": {
					"departureCity": {"type": "string", "minLength": 3},
					"arrivalCity": {"type": "string", "minLength": 3},
					"hour": {"type": "string", "format": "date-time"}
				}
			}
		}
	}
}`

const reservationRequestSchema = `{
	"type": "object",
	"required": ["name", "email", "passenger_count", "adult_count", "child_count", "baby_count", "total_amount", "currency", "itineraries"],
	"properties": {
		"passenger_count": {"type": "integer", "minimum": 1},
		"adult_count": {"type": "integer", "minimum": 1},
		"child_count": {"type": "integer", "minimum": 0},
		"baby_count": {"type": "integer", "minimum": 0},
		"total_amount": {"type": "number", "minimum": 0},
		"currency": {"type": "string", "minLength": 3, "maxLength": 3},
		"itineraries": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["departure_city", "arrival_city", "departure_date", "departure_time", "flight_number", "marketing_carrier"],
				"properties": {
					"flight_number": {"type": "string", "minLength": 1},
					"marketing_carrier": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

var (
	flightRequestValidator      = mustSchema(flightRequestSchema)
	reservationRequestValidator = mustSchema(reservationRequestSchema)
)

func mustSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return s
}

// validateRequest checks an outgoing body against schema
func validateRequest(schema *gojsonschema.Schema, body interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errors := []string{}
	for _, resultError := range result.Errors() {
		errors = append(errors, fmt.Sprintf("%v", resultError))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(errors, "; "))
}

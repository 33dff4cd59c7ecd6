package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight searches
type FlightRepository interface {
	SearchFlights(ctx context.Context, req *entity.FlightRequest) (*entity.FlightResponse, error)
}

package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// CatalogRepository defines the interface for airport catalog lookups
type CatalogRepository interface {
	LookupAirports(ctx context.Context, query string) (*entity.AirportLookup, error)
}
